// Package enginetest provides a recording mock resource monitor for unit
// testing Pulumi programs without an engine.
package enginetest

import (
	"fmt"
	"sync"

	"github.com/pulumi/pulumi/sdk/v3/go/common/resource"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// Registration is one resource registration observed during a mocked run.
type Registration struct {
	Token    string
	Name     string
	Inputs   resource.PropertyMap
	Provider string
}

// Monitor records every resource registration and serves stack-reference
// reads from StackOutputs. Referencing a stack that has no entry fails the
// registration, which is exactly how a never-deployed producer behaves.
// StaticIDs overrides the assigned id for named resources; everything else
// gets "<name>-id".
type Monitor struct {
	StackOutputs map[string]map[string]interface{}
	StaticIDs    map[string]string

	mu         sync.Mutex
	registered []Registration
}

func (m *Monitor) NewResource(args pulumi.MockResourceArgs) (string, resource.PropertyMap, error) {
	m.mu.Lock()
	m.registered = append(m.registered, Registration{
		Token:    args.TypeToken,
		Name:     args.Name,
		Inputs:   args.Inputs,
		Provider: args.Provider,
	})
	m.mu.Unlock()

	if args.TypeToken == "pulumi:pulumi:StackReference" {
		target := args.Inputs["name"].StringValue()
		outs, ok := m.StackOutputs[target]
		if !ok {
			return "", nil, fmt.Errorf("stack %q has never been deployed", target)
		}
		return args.Name, resource.PropertyMap{
			"outputs": resource.NewPropertyValue(outs),
		}, nil
	}

	if id, ok := m.StaticIDs[args.Name]; ok {
		return id, args.Inputs, nil
	}
	return args.Name + "-id", args.Inputs, nil
}

func (m *Monitor) Call(args pulumi.MockCallArgs) (resource.PropertyMap, error) {
	return args.Args, nil
}

// Registered returns the registrations matching a type token, or all of them
// for an empty token.
func (m *Monitor) Registered(token string) []Registration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token == "" {
		return append([]Registration(nil), m.registered...)
	}
	var out []Registration
	for _, r := range m.registered {
		if r.Token == token {
			out = append(out, r)
		}
	}
	return out
}
