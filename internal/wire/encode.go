package wire

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"github.com/tomz197/collisions/internal/collision"
)

// Encode serializes events as a JSON array of
// {"type_a","id_a","type_b","id_b"} objects. An empty or nil slice
// encodes as [].
func Encode(events []collision.CollisionEvent) ([]byte, error) {
	out := []byte("[]")
	for i, ev := range events {
		obj, err := encodeEvent(ev)
		if err != nil {
			return nil, &EncodeError{Index: i, Err: err}
		}
		if out, err = sjson.SetRawBytes(out, "-1", obj); err != nil {
			return nil, &EncodeError{Index: i, Err: err}
		}
	}
	return out, nil
}

func encodeEvent(ev collision.CollisionEvent) ([]byte, error) {
	if !ev.TypeA.Valid() {
		return nil, fmt.Errorf("type_a: %s is not a collidable type", ev.TypeA)
	}
	if !ev.TypeB.Valid() {
		return nil, fmt.Errorf("type_b: %s is not a collidable type", ev.TypeB)
	}

	obj := []byte("{}")
	var err error
	if obj, err = sjson.SetBytes(obj, "type_a", ev.TypeA.String()); err != nil {
		return nil, err
	}
	if obj, err = sjson.SetRawBytes(obj, "id_a", strconv.AppendUint(nil, uint64(ev.IDA), 10)); err != nil {
		return nil, err
	}
	if obj, err = sjson.SetBytes(obj, "type_b", ev.TypeB.String()); err != nil {
		return nil, err
	}
	if obj, err = sjson.SetRawBytes(obj, "id_b", strconv.AppendUint(nil, uint64(ev.IDB), 10)); err != nil {
		return nil, err
	}
	return obj, nil
}

// DecodeEvents parses the output of Encode.
func DecodeEvents(data []byte) ([]collision.CollisionEvent, error) {
	if !gjson.ValidBytes(data) {
		return nil, &DecodeError{Path: "$", Reason: "malformed JSON"}
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, &DecodeError{Path: "$", Reason: "expected array, got " + kind(root)}
	}

	items := root.Array()
	events := make([]collision.CollisionEvent, 0, len(items))
	for i, item := range items {
		path := fmt.Sprintf("$[%d]", i)
		if !item.IsObject() {
			return nil, &DecodeError{Path: path, Reason: "expected object, got " + kind(item)}
		}
		if err := checkDuplicates(item, path, "type_a", "id_a", "type_b", "id_b"); err != nil {
			return nil, err
		}

		var (
			ev  collision.CollisionEvent
			err error
		)
		if ev.TypeA, err = decodeType(item.Get("type_a"), path+".type_a"); err != nil {
			return nil, err
		}
		if ev.IDA, err = decodeID(item.Get("id_a"), path+".id_a"); err != nil {
			return nil, err
		}
		if ev.TypeB, err = decodeType(item.Get("type_b"), path+".type_b"); err != nil {
			return nil, err
		}
		if ev.IDB, err = decodeID(item.Get("id_b"), path+".id_b"); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func decodeType(r gjson.Result, path string) (collision.CollidableType, error) {
	if r.Type != gjson.String {
		return 0, &DecodeError{Path: path, Reason: "expected type label, got " + kind(r)}
	}
	t, err := collision.ParseCollidableType(r.Str)
	if err != nil {
		return 0, &DecodeError{Path: path, Reason: err.Error()}
	}
	return t, nil
}

// Handle decodes a snapshot, detects its collisions and encodes the result.
func Handle(data []byte) ([]byte, error) {
	state, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Encode(collision.Detect(state))
}
