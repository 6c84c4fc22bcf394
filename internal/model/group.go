// internal/model/group.go
package model

import (
	"encoding/json"
	"fmt"
)

// FlexibleID decodes a JSON string or number into a string. Group ids
// arrive as numbers from some upstream sources and strings from others;
// membership checks must compare them string-equal, so everything is
// normalized at decode time.
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleID(n.String())
		return nil
	}
	return fmt.Errorf("group id must be a string or number, got %s", string(data))
}

// Group is one entry of the distribution-group directory. The directory
// is read-only from the composer's viewpoint; selection state lives in
// the wizard session until submit.
type Group struct {
	ID               FlexibleID `json:"id"`
	Name             string     `json:"name"`
	ParticipantCount int        `json:"participantCount"`
}
