package reqcurry

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Invoke supplies the consumer and triggers the request. It starts
// exactly one retrieval, does not block, and returns nothing: on
// success consume is called once with the decoded payload, on failure
// the failure handler receives a Failure and consume is never called.
// Concurrent invokes are independent and complete in no particular
// order.
func (e Endpoint[T]) Invoke(consume Consumer[T]) {
	go e.run(consume)
}

func (e Endpoint[T]) run(consume Consumer[T]) {
	rlog := log.WithField("req_id", uuid.New().String()).WithField("url", e.locator)
	rlog.Debug("fetching")

	body, err := e.cfg.transport.Fetch(e.locator)
	if err != nil {
		e.cfg.onFailure(Failure{Kind: KindTransport, Locator: e.locator, Err: err})
		return
	}
	defer body.Close()

	var payload T
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		e.cfg.onFailure(Failure{Kind: KindDecode, Locator: e.locator, Err: err})
		return
	}

	rlog.Debug("dispatching payload")
	consume(payload)
}
