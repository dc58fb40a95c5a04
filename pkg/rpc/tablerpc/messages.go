// Package tablerpc defines the TableService gRPC API. Messages travel as
// google.protobuf.Struct values holding the JSON form of the Go types below.
package tablerpc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/vctt94/cardcounter/pkg/blackjack"
	"github.com/vctt94/cardcounter/pkg/suspicion"
	"github.com/vctt94/cardcounter/pkg/table"
)

type CreateTableRequest struct {
	PlayerID string `json:"playerId"`
	// Preset selects a named rule set; the server defaults are used when
	// both Preset and Rules are empty.
	Preset      string           `json:"preset,omitempty"`
	Rules       *blackjack.Rules `json:"rules,omitempty"`
	Seed        int64            `json:"seed,omitempty"`
	StepDelayMs int64            `json:"stepDelayMs,omitempty"`
}

type CreateTableResponse struct {
	TableID string          `json:"tableId"`
	Rules   blackjack.Rules `json:"rules"`
}

type JoinTableRequest struct {
	TableID  string `json:"tableId"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Seat     int    `json:"seat"`
}

type LeaveTableRequest struct {
	TableID  string `json:"tableId"`
	PlayerID string `json:"playerId"`
}

type LeaveTableResponse struct {
	Chips int64       `json:"chips"`
	Stats table.Stats `json:"stats"`
}

// PlayerRequest addresses a player at a table. SitOut, NextHand and
// GetState take it as is.
type PlayerRequest struct {
	TableID  string `json:"tableId"`
	PlayerID string `json:"playerId"`
}

type BetRequest struct {
	TableID  string `json:"tableId"`
	PlayerID string `json:"playerId"`
	Amount   int64  `json:"amount"`
}

type InsureRequest struct {
	TableID  string `json:"tableId"`
	PlayerID string `json:"playerId"`
	Stake    int64  `json:"stake"`
}

type ActRequest struct {
	TableID  string           `json:"tableId"`
	PlayerID string           `json:"playerId"`
	Action   blackjack.Action `json:"action"`
}

type ConverseRequest struct {
	TableID  string             `json:"tableId"`
	PlayerID string             `json:"playerId"`
	Response suspicion.Response `json:"response"`
}

// StateResponse answers every table operation with the resulting table.
type StateResponse struct {
	State table.Snapshot `json:"state"`
}

// Event is a table event on the wire. Payload holds the JSON form of the
// engine payload for Type.
type Event struct {
	Type      blackjack.EventType `json:"type"`
	TableID   string              `json:"tableId"`
	Round     int                 `json:"round"`
	Timestamp time.Time           `json:"timestamp"`
	Payload   json.RawMessage     `json:"payload,omitempty"`
}

// NewEvent converts an engine event.
func NewEvent(ev blackjack.Event, at time.Time) (*Event, error) {
	out := &Event{Type: ev.Type, TableID: ev.TableID, Round: ev.Round, Timestamp: at}
	if ev.Payload != nil {
		data, err := json.Marshal(ev.Payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", ev.Type, err)
		}
		out.Payload = data
	}
	return out, nil
}

// DecodePayload unmarshals the payload into v.
func (e *Event) DecodePayload(v interface{}) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("%s event has no payload", e.Type)
	}
	return json.Unmarshal(e.Payload, v)
}

// Encode packs a message into a Struct.
func Encode(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

// Decode unpacks a Struct into a message.
func Decode(s *structpb.Struct, v interface{}) error {
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %T: %w (%s)", v, err, spew.Sdump(s.AsMap()))
	}
	return nil
}
