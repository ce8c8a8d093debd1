package jsoncodec

import (
	"testing"

	"google.golang.org/grpc/encoding"
)

type message struct {
	TrainerID string `json:"trainer_id"`
	Delta     int    `json:"delta"`
}

func TestCodecRegistered(t *testing.T) {
	if encoding.GetCodec(Name) == nil {
		t.Fatal("expected json codec to be registered")
	}
}

func TestCodecRoundTripsStructs(t *testing.T) {
	codec := Codec{}
	data, err := codec.Marshal(&message{TrainerID: "t-1", Delta: -20})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"trainer_id":"t-1","delta":-20}` {
		t.Fatalf("payload = %s", data)
	}
	var got message
	if err := codec.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.TrainerID != "t-1" || got.Delta != -20 {
		t.Fatalf("decoded = %+v", got)
	}
}

func TestCodecEmptyPayload(t *testing.T) {
	got := message{TrainerID: "keep"}
	if err := (Codec{}).Unmarshal(nil, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.TrainerID != "keep" {
		t.Fatalf("expected untouched message, got %+v", got)
	}
}
