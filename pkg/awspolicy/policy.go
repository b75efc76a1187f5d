// Package awspolicy models IAM policy documents as typed values that
// marshal into the JSON the provider expects. Keeping the documents
// typed keeps statement construction testable and the field casing in
// one place.
package awspolicy

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/klothoplatform/tablestream/pkg/set"
)

const Version = "2012-10-17"

type (
	PolicyDocument struct {
		Version   string           `json:"Version"`
		Statement []StatementEntry `json:"Statement"`
	}

	StatementEntry struct {
		Sid       string     `json:"Sid,omitempty"`
		Effect    string     `json:"Effect"`
		Action    []string   `json:"Action,omitempty"`
		Resource  []string   `json:"Resource,omitempty"`
		Principal *Principal `json:"Principal,omitempty"`
		Condition *Condition `json:"Condition,omitempty"`
	}

	Principal struct {
		Service string   `json:"Service,omitempty"`
		AWS     []string `json:"AWS,omitempty"`
	}

	Condition struct {
		StringEquals map[string]string `json:"StringEquals,omitempty"`
		Bool         map[string]string `json:"Bool,omitempty"`
	}
)

// ServiceAssumeRolePolicy is the trust document letting service (for
// example "firehose.amazonaws.com") assume the role it is attached to.
func ServiceAssumeRolePolicy(service string) *PolicyDocument {
	return &PolicyDocument{
		Version: Version,
		Statement: []StatementEntry{
			{
				Action: []string{"sts:AssumeRole"},
				Principal: &Principal{
					Service: service,
				},
				Effect: "Allow",
			},
		},
	}
}

// Allow is shorthand for an Allow statement over the given actions and
// resources.
func Allow(actions []string, resources []string) StatementEntry {
	return StatementEntry{
		Effect:   "Allow",
		Action:   actions,
		Resource: resources,
	}
}

func (d *PolicyDocument) Append(statements ...StatementEntry) {
	d.Statement = append(d.Statement, statements...)
	d.Deduplicate()
}

// Deduplicate drops repeated statements, keeping first occurrences in
// order. Statements are compared by their full rendered form.
func (d *PolicyDocument) Deduplicate() {
	keys := make(set.Set[string], len(d.Statement))
	var unique []StatementEntry
	for _, stmt := range d.Statement {
		key := stmt.key()
		if keys.Contains(key) {
			continue
		}
		keys.Add(key)
		unique = append(unique, stmt)
	}
	d.Statement = unique
}

func (e StatementEntry) key() string {
	raw, err := json.Marshal(e)
	if err != nil {
		// Marshaling a StatementEntry cannot fail; the fields are all
		// plain strings and maps.
		return fmt.Sprintf("%v", e)
	}
	return string(raw)
}

// JSON renders the document in the form the provider's policy fields
// accept.
func (d *PolicyDocument) JSON() (string, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to marshal policy document: %w", err)
	}
	return string(raw), nil
}

// Actions returns every action named by the document, sorted, mostly
// for assertions and debug output.
func (d *PolicyDocument) Actions() []string {
	actions := make(set.Set[string])
	for _, stmt := range d.Statement {
		actions.Add(stmt.Action...)
	}
	return set.Sorted(actions)
}

func (d *PolicyDocument) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PolicyDocument(%s)", strings.Join(d.Actions(), ", "))
	return sb.String()
}
