package checkin

import "context"

// Source is where scanned payloads come from. The production path is the
// mobile client's camera posting the payload over HTTP; StaticSource stands
// in for it in tests and in the simulated-scanner endpoint.
type Source interface {
	Scan(ctx context.Context) (string, error)
}

// StaticSource returns a fixed payload on every scan.
type StaticSource struct {
	Payload string
}

func NewStaticSource(centerID string) (*StaticSource, error) {
	payload, err := Generate(centerID)
	if err != nil {
		return nil, err
	}
	return &StaticSource{Payload: payload}, nil
}

func (s *StaticSource) Scan(ctx context.Context) (string, error) {
	return s.Payload, nil
}
