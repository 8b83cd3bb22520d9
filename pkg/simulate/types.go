package simulate

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrSimulated is the intentional failure raised by the fault injector.
// Its message is part of the HTTP contract: the error translator surfaces
// it verbatim in the response body.
var ErrSimulated = errors.New("Random error occurred!") //nolint:staticcheck // message is part of the response contract

// Policy parameterizes one endpoint's randomized behavior: a processing
// delay drawn uniformly from [MinDelay, MaxDelay] and an independent
// failure probability in [0, 1]. The zero Policy injects nothing.
type Policy struct {
	MinDelay           time.Duration `json:"min_delay" yaml:"minDelay"`
	MaxDelay           time.Duration `json:"max_delay" yaml:"maxDelay"`
	FailureProbability float64       `json:"failure_probability" yaml:"failureProbability"`
}

// Validate checks that the policy's bounds are usable.
func (p Policy) Validate() error {
	if p.MinDelay < 0 {
		return fmt.Errorf("minDelay must be >= 0, got %s", p.MinDelay)
	}
	if p.MaxDelay < p.MinDelay {
		return fmt.Errorf("maxDelay (%s) must be >= minDelay (%s)", p.MaxDelay, p.MinDelay)
	}
	if p.FailureProbability < 0 || p.FailureProbability > 1 {
		return fmt.Errorf("failureProbability must be between 0.0 and 1.0, got %v", p.FailureProbability)
	}
	return nil
}

// UnmarshalYAML decodes a policy whose delays are duration strings, e.g.
//
//	minDelay: 10ms
//	maxDelay: 50ms
//	failureProbability: 0.5
//
// Fields absent from the document keep their current values, so a policy
// can be overlaid onto defaults.
func (p *Policy) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		MinDelay           string   `yaml:"minDelay"`
		MaxDelay           string   `yaml:"maxDelay"`
		FailureProbability *float64 `yaml:"failureProbability"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.MinDelay != "" {
		d, err := time.ParseDuration(raw.MinDelay)
		if err != nil {
			return fmt.Errorf("invalid minDelay %q: %w", raw.MinDelay, err)
		}
		p.MinDelay = d
	}
	if raw.MaxDelay != "" {
		d, err := time.ParseDuration(raw.MaxDelay)
		if err != nil {
			return fmt.Errorf("invalid maxDelay %q: %w", raw.MaxDelay, err)
		}
		p.MaxDelay = d
	}
	if raw.FailureProbability != nil {
		p.FailureProbability = *raw.FailureProbability
	}
	return nil
}

// Stats tracks what the injector has done so far.
type Stats struct {
	DelaysInjected int64         `json:"delaysInjected"`
	TotalDelay     time.Duration `json:"totalDelay"`
	FaultTrials    int64         `json:"faultTrials"`
	FaultsInjected int64         `json:"faultsInjected"`
}
