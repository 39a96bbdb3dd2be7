package cache

import (
	"testing"
)

type snapshotRecord struct {
	ID   string `json:"id" msgpack:"id"`
	Name string `json:"name" msgpack:"name"`
	Age  int    `json:"age" msgpack:"age"`
}

func TestJSONCodec_SnapshotIsVerbatimJSON(t *testing.T) {
	codec := JSONCodec{}
	data, err := codec.Marshal([]snapshotRecord{{ID: "1", Name: "John", Age: 30}})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `[{"id":"1","name":"John","age":30}]`
	if string(data) != want {
		t.Errorf("cached payload mismatch:\ngot  %s\nwant %s", data, want)
	}
}

func TestCodecs_RoundTripEmptySlice(t *testing.T) {
	// An empty collection is a valid snapshot and must survive encoding as
	// an empty sequence, not come back nil-vs-error.
	for _, codec := range []Codec{JSONCodec{}, MsgpackCodec{}} {
		t.Run(codec.Name(), func(t *testing.T) {
			data, err := codec.Marshal([]snapshotRecord{})
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}

			var out []snapshotRecord
			if err := codec.Unmarshal(data, &out); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if len(out) != 0 {
				t.Errorf("expected empty snapshot, got %d records", len(out))
			}
		})
	}
}

func TestMsgpackCodec_RoundTrip(t *testing.T) {
	codec := MsgpackCodec{}
	in := []snapshotRecord{{ID: "1", Name: "John", Age: 30}, {ID: "2", Name: "Jane", Age: 25}}

	data, err := codec.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var out []snapshotRecord
	if err := codec.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestCodecByName(t *testing.T) {
	if got := CodecByName("msgpack").Name(); got != "msgpack" {
		t.Errorf("expected msgpack codec, got %s", got)
	}
	if got := CodecByName("json").Name(); got != "json" {
		t.Errorf("expected json codec, got %s", got)
	}
	if got := CodecByName("").Name(); got != "json" {
		t.Errorf("expected json fallback for empty name, got %s", got)
	}
}
