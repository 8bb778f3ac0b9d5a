package push

import (
	"errors"
	"log"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
)

// ErrNoEndpoints means nothing was attempted: the registry is empty. Distinct
// from a fan-out that ran but delivered nowhere, which is not an error.
var ErrNoEndpoints = errors.New("no push endpoints registered")

// Sender is the part of the APNs client the engine uses. Tests inject fakes.
type Sender interface {
	Push(n *apns2.Notification) (*apns2.Response, error)
}

// Engine formats and dispatches notifications to every registered endpoint
// and prunes endpoints the provider reports as permanently invalid.
type Engine struct {
	sandbox    Sender
	production Sender
	topic      string
	registry   *Registry
	history    *History
}

// NewEngine connects the sandbox and production APNs channels. Connection
// setup failure disables push entirely (the caller keeps the daemon running
// without it).
func NewEngine(creds Credentials, registry *Registry, history *History) (*Engine, error) {
	sandbox, production, err := newClients(creds)
	if err != nil {
		return nil, err
	}
	log.Printf("[push] APNs clients initialized (sandbox + production)")
	return NewEngineWithClients(sandbox, production, creds.BundleID, registry, history), nil
}

// NewEngineWithClients builds an engine on caller-supplied delivery channels.
func NewEngineWithClients(sandbox, production Sender, topic string, registry *Registry, history *History) *Engine {
	return &Engine{
		sandbox:    sandbox,
		production: production,
		topic:      topic,
		registry:   registry,
		history:    history,
	}
}

// Send dispatches a notification to every registered endpoint independently.
// Per-endpoint provider failures are logged and do not abort the fan-out; a
// BadDeviceToken/Unregistered reason marks the endpoint for removal, and all
// marked endpoints are pruned in one batched mutation afterwards.
func (e *Engine) Send(title, body, paneTarget string) error {
	endpoints := e.registry.List()
	if len(endpoints) == 0 {
		return ErrNoEndpoints
	}

	if paneTarget != "" {
		log.Printf("[push] notification paneTarget: %s", paneTarget)
	}

	var delivered int
	var invalid []string

	for _, ep := range endpoints {
		p := payload.NewPayload().
			AlertTitle(FormatTitle(ep.ServerName, title)).
			AlertBody(body).
			Sound("default")
		if paneTarget != "" {
			p = p.Custom("paneTarget", paneTarget)
		}
		if ep.DeviceID != "" {
			p = p.Custom("deviceId", ep.DeviceID)
		}

		n := &apns2.Notification{
			DeviceToken: ep.Token,
			Topic:       e.topic,
			Payload:     p,
		}

		client := e.production
		env := "production"
		if ep.Sandbox {
			client = e.sandbox
			env = "sandbox"
		}

		res, err := client.Push(n)
		switch {
		case err != nil:
			// Transport-level failure: transient, no retry within this call
			log.Printf("[push] APNs error for %s...: %v", tokenPrefix(ep.Token), err)
		case res.Sent():
			delivered++
			log.Printf("[push] notification sent (%s): %s", env, res.ApnsID)
		case res.Reason == apns2.ReasonBadDeviceToken || res.Reason == apns2.ReasonUnregistered:
			log.Printf("[push] pruning invalid endpoint %s... (%s: %s)",
				tokenPrefix(ep.Token), env, res.Reason)
			invalid = append(invalid, ep.Token)
		default:
			log.Printf("[push] APNs rejected for %s...: %d %s",
				tokenPrefix(ep.Token), res.StatusCode, res.Reason)
		}
	}

	pruned := e.registry.Remove(invalid)

	if e.history != nil {
		e.history.Record(title, body, paneTarget, len(endpoints), delivered, pruned)
	}
	return nil
}
