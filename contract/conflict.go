package contract

import (
	"fmt"
	"strconv"

	"github.com/fewlinesco/rampsdk/schema"
)

// A ConflictDetector inspects a response root and reports an
// "already exists" condition, or nil.
type ConflictDetector func(root interface{}) *ConflictError

// OrderExists is the detector name for the order API's duplicate-order reply.
const OrderExists = "order_exists"

const orderExistsMessage = "Order already exists, please complete or cancel the existing order"

var conflictDetectors = map[string]ConflictDetector{
	OrderExists: detectOrderExists,
}

func conflictDetector(name string) (ConflictDetector, error) {
	if name == "" {
		return nil, nil
	}
	detect, ok := conflictDetectors[name]
	if !ok {
		return nil, responseViolation(ReasonPrecondition, "", "Unknown conflict detector: %s", name)
	}
	return detect, nil
}

// detectOrderExists matches {errorMessage: "Order exists", data: {id, status, createdAt}}.
func detectOrderExists(root interface{}) *ConflictError {
	obj, ok := schema.ObjectOf(root)
	if !ok {
		return nil
	}
	if msg, _ := obj["errorMessage"].(string); msg != "Order exists" {
		return nil
	}
	data, ok := schema.ObjectOf(obj["data"])
	if !ok {
		return nil
	}
	id := text(data["id"])
	if id == "" {
		return nil
	}
	return &ConflictError{
		Message:   orderExistsMessage,
		Entity:    "order",
		EntityID:  id,
		Status:    text(data["status"]),
		CreatedAt: text(data["createdAt"]),
	}
}

func text(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// CheckEndpoint runs the schema checks of ep and verifies that its conflict
// detector exists.
func CheckEndpoint(ep *schema.Endpoint) error {
	if err := ep.Check(); err != nil {
		return err
	}
	if _, err := conflictDetector(ep.Conflict); err != nil {
		return fmt.Errorf("endpoint %s: %w", ep.ID, err)
	}
	return nil
}
