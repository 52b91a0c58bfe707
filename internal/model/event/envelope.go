package event

import (
	"encoding/json"

	"github.com/bytedance/sonic"

	"tradecore/internal/errors"
	"tradecore/pkg/exception"
)

// Envelope is the wire form of an OrderEvent: a kind tag and the JSON body.
type Envelope struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Wrap places ev in an envelope.
func Wrap(ev OrderEvent) (Envelope, error) {
	if ev == nil {
		return Envelope{}, errors.Wrap(exception.ErrNilInstance, "wrap event")
	}
	data, err := sonic.Marshal(ev)
	if err != nil {
		return Envelope{}, errors.Wrapf(err, "marshal %s", ev.Kind())
	}
	return Envelope{Kind: ev.Kind(), Data: data}, nil
}

// Unwrap decodes the body according to the kind tag.
func (e Envelope) Unwrap() (OrderEvent, error) {
	switch e.Kind {
	case KindInitialized:
		return decodeAs[Initialized](e.Data)
	case KindDenied:
		return decodeAs[Denied](e.Data)
	case KindInvalid:
		return decodeAs[Invalid](e.Data)
	case KindEmulated:
		return decodeAs[Emulated](e.Data)
	case KindReleased:
		return decodeAs[Released](e.Data)
	case KindSubmitted:
		return decodeAs[Submitted](e.Data)
	case KindAccepted:
		return decodeAs[Accepted](e.Data)
	case KindRejected:
		return decodeAs[Rejected](e.Data)
	case KindCanceled:
		return decodeAs[Canceled](e.Data)
	case KindExpired:
		return decodeAs[Expired](e.Data)
	case KindTriggered:
		return decodeAs[Triggered](e.Data)
	case KindPendingUpdate:
		return decodeAs[PendingUpdate](e.Data)
	case KindPendingCancel:
		return decodeAs[PendingCancel](e.Data)
	case KindModifyRejected:
		return decodeAs[ModifyRejected](e.Data)
	case KindCancelRejected:
		return decodeAs[CancelRejected](e.Data)
	case KindUpdated:
		return decodeAs[Updated](e.Data)
	case KindFilled:
		return decodeAs[Filled](e.Data)
	default:
		return nil, errors.Wrapf(exception.ErrUnknownEvent, "kind %s", e.Kind)
	}
}

// Encode writes ev as an envelope document.
func Encode(ev OrderEvent) ([]byte, error) {
	env, err := Wrap(ev)
	if err != nil {
		return nil, err
	}
	return sonic.Marshal(env)
}

// Decode reads an envelope document.
func Decode(data []byte) (OrderEvent, error) {
	var env Envelope
	if err := sonic.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrapf(exception.ErrMalformedRecord, "envelope: %v", err)
	}
	return env.Unwrap()
}

// DecodeAll reads a JSON array of envelope documents.
func DecodeAll(data []byte) ([]OrderEvent, error) {
	var envs []Envelope
	if err := sonic.Unmarshal(data, &envs); err != nil {
		return nil, errors.Wrapf(exception.ErrMalformedRecord, "envelopes: %v", err)
	}
	out := make([]OrderEvent, 0, len(envs))
	for i, env := range envs {
		ev, err := env.Unwrap()
		if err != nil {
			return nil, errors.Wrapf(err, "envelope %d", i)
		}
		out = append(out, ev)
	}
	return out, nil
}

func decodeAs[T OrderEvent](data []byte) (OrderEvent, error) {
	var ev T
	if err := sonic.Unmarshal(data, &ev); err != nil {
		return nil, errors.Wrapf(exception.ErrMalformedRecord, "%s: %v", ev.Kind(), err)
	}
	return ev, nil
}
