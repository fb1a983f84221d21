package order

import (
	"bytes"
	"encoding/json"
	"fmt"

	"cleaning-crm/internal/domain"
)

type roomsPayload struct {
	LivingRoom   int      `json:"livingRoom"`
	Kitchen      int      `json:"kitchen"`
	Bathroom     int      `json:"bathroom"`
	Bedroom      int      `json:"bedroom"`
	SquareMeters *float64 `json:"squareMeters"`
}

type balconyPayload struct {
	SquareMeters float64 `json:"squareMeters"`
}

func invalidDetails(reason string) error {
	return domain.Validation("Invalid order details: " + reason)
}

// ParseOrderDetails decodes raw order details. The top level must be an
// object holding exactly the rooms and balcony objects; nested objects
// reject unknown fields and values of the wrong type.
func ParseOrderDetails(raw json.RawMessage) (domain.OrderDetails, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return domain.OrderDetails{}, invalidDetails("must be an object")
	}
	for key := range top {
		if key != "rooms" && key != "balcony" {
			return domain.OrderDetails{}, invalidDetails(fmt.Sprintf("unknown field %q", key))
		}
	}

	roomsRaw, ok := top["rooms"]
	if !ok {
		return domain.OrderDetails{}, invalidDetails("rooms is required")
	}
	balconyRaw, ok := top["balcony"]
	if !ok {
		return domain.OrderDetails{}, invalidDetails("balcony is required")
	}

	var rooms roomsPayload
	if err := decodeStrict(roomsRaw, &rooms); err != nil {
		return domain.OrderDetails{}, invalidDetails("rooms: " + err.Error())
	}
	if rooms.SquareMeters == nil {
		return domain.OrderDetails{}, invalidDetails("rooms.squareMeters is required")
	}
	var balcony balconyPayload
	if err := decodeStrict(balconyRaw, &balcony); err != nil {
		return domain.OrderDetails{}, invalidDetails("balcony: " + err.Error())
	}

	return domain.OrderDetails{
		Rooms: domain.Rooms{
			LivingRoom:   rooms.LivingRoom,
			Kitchen:      rooms.Kitchen,
			Bathroom:     rooms.Bathroom,
			Bedroom:      rooms.Bedroom,
			SquareMeters: *rooms.SquareMeters,
		},
		Balcony: domain.Balcony{SquareMeters: balcony.SquareMeters},
	}, nil
}

func decodeStrict(raw json.RawMessage, dst any) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return fmt.Errorf("must be an object")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("malformed value")
	}
	return nil
}

// ValidateOrderDetails checks the business minimums: no negative values,
// at least one room, and a non-zero living space.
func ValidateOrderDetails(d domain.OrderDetails) error {
	r := d.Rooms
	switch {
	case r.LivingRoom < 0 || r.Kitchen < 0 || r.Bathroom < 0 || r.Bedroom < 0:
		return invalidDetails("room counts must not be negative")
	case r.SquareMeters < 0:
		return invalidDetails("rooms.squareMeters must not be negative")
	case d.Balcony.SquareMeters < 0:
		return invalidDetails("balcony.squareMeters must not be negative")
	case r.LivingRoom == 0 && r.Kitchen == 0 && r.Bathroom == 0 && r.Bedroom == 0:
		return invalidDetails("at least one room is required")
	case r.SquareMeters == 0:
		return invalidDetails("rooms.squareMeters must be greater than 0")
	}
	return nil
}

func parseAndValidateDetails(raw json.RawMessage) (domain.OrderDetails, error) {
	d, err := ParseOrderDetails(raw)
	if err != nil {
		return domain.OrderDetails{}, err
	}
	if err := ValidateOrderDetails(d); err != nil {
		return domain.OrderDetails{}, err
	}
	return d, nil
}
