package card

import (
	"encoding/json"
	"fmt"
)

// CreateRequest defines card creation inputs. Instants are strings parsed
// as UTC; an empty string leaves the instant unset.
type CreateRequest struct {
	ListID      string
	Title       string
	Assignee    Assignee
	Description string
	Status      Status
	Start       string
	Due         string
	Extra       map[string]any
}

// Patch is a partial card update. Nil fields are left unchanged; an empty
// Start or Due clears the instant. An Extra key mapped to nil is removed.
type Patch struct {
	ListID      *string
	Title       *string
	Assignee    *Assignee
	Description *string
	Status      *Status
	Start       *string
	Due         *string
	Extra       map[string]any
}

// Keys the server assigns. They are never taken from input nor kept as extras.
var serverKeys = map[string]bool{
	"id":                 true,
	"completed_at":       true,
	"completion_message": true,
	"created_at":         true,
	"updated_at":         true,
}

// DecodeCreateRequest reads a JSON card object. Unknown attributes become extras.
func DecodeCreateRequest(data []byte) (CreateRequest, error) {
	p, err := DecodePatch(data)
	if err != nil {
		return CreateRequest{}, err
	}
	req := CreateRequest{Extra: p.Extra}
	if p.ListID != nil {
		req.ListID = *p.ListID
	}
	if p.Title != nil {
		req.Title = *p.Title
	}
	if p.Assignee != nil {
		req.Assignee = *p.Assignee
	}
	if p.Description != nil {
		req.Description = *p.Description
	}
	if p.Status != nil {
		req.Status = *p.Status
	}
	if p.Start != nil {
		req.Start = *p.Start
	}
	if p.Due != nil {
		req.Due = *p.Due
	}
	return req, nil
}

// DecodePatch reads a partial JSON card object. A typed field set to null
// decodes as its zero value.
func DecodePatch(data []byte) (Patch, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Patch{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var p Patch
	for key, value := range raw {
		var err error
		switch key {
		case "list_id":
			p.ListID, err = decodeString(value)
		case "title":
			p.Title, err = decodeString(value)
		case "description":
			p.Description, err = decodeString(value)
		case "start":
			p.Start, err = decodeString(value)
		case "due":
			p.Due, err = decodeString(value)
		case "assignee":
			var s *string
			if s, err = decodeString(value); err == nil {
				a := Assignee(*s)
				p.Assignee = &a
			}
		case "status":
			var s *string
			if s, err = decodeString(value); err == nil {
				st := Status(*s)
				p.Status = &st
			}
		default:
			if serverKeys[key] {
				continue
			}
			var v any
			if err = json.Unmarshal(value, &v); err == nil {
				if p.Extra == nil {
					p.Extra = make(map[string]any)
				}
				p.Extra[key] = v
			}
		}
		if err != nil {
			return Patch{}, fmt.Errorf("%w: %s: %v", ErrInvalidInput, key, err)
		}
	}
	return p, nil
}

func decodeString(value json.RawMessage) (*string, error) {
	var s *string
	if err := json.Unmarshal(value, &s); err != nil {
		return nil, err
	}
	if s == nil {
		empty := ""
		return &empty, nil
	}
	return s, nil
}

// Empty reports whether the patch carries no field.
func (p Patch) Empty() bool {
	return p.ListID == nil && p.Title == nil && p.Assignee == nil && p.Description == nil &&
		p.Status == nil && p.Start == nil && p.Due == nil && len(p.Extra) == 0
}
