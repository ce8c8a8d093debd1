package faction

import "testing"

func TestRequirementValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Requirement
		wantErr bool
	}{
		{name: "item", req: Requirement{Kind: RequirementItem, Name: "Treasure Map", Quantity: 1}},
		{name: "item without name", req: Requirement{Kind: RequirementItem, Quantity: 1}, wantErr: true},
		{name: "item without quantity", req: Requirement{Kind: RequirementItem, Name: "Map"}, wantErr: true},
		{name: "item with amount", req: Requirement{Kind: RequirementItem, Name: "Map", Quantity: 1, Amount: 5}, wantErr: true},
		{name: "currency", req: Requirement{Kind: RequirementCurrency, Amount: 500}},
		{name: "currency zero", req: Requirement{Kind: RequirementCurrency}, wantErr: true},
		{name: "currency with name", req: Requirement{Kind: RequirementCurrency, Amount: 5, Name: "coins"}, wantErr: true},
		{name: "none", req: Requirement{Kind: RequirementNone}},
		{name: "none with amount", req: Requirement{Kind: RequirementNone, Amount: 1}, wantErr: true},
		{name: "unknown", req: Requirement{Kind: "gem"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRequirementsNoneAlone(t *testing.T) {
	err := ValidateRequirements([]Requirement{
		{Kind: RequirementNone},
		{Kind: RequirementCurrency, Amount: 10},
	})
	if err == nil {
		t.Fatal("expected error for combined none requirement")
	}
}

func TestEncodeDecodeRequirements(t *testing.T) {
	raw, err := EncodeRequirements(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if raw != `[{"kind":"none"}]` {
		t.Fatalf("encoded = %s, want none snapshot", raw)
	}

	raw, err = EncodeRequirements([]Requirement{
		{Kind: RequirementItem, Name: "Data Crystal", Quantity: 1},
		{Kind: RequirementCurrency, Amount: 500},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	reqs, err := DecodeRequirements(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(reqs) != 2 || reqs[0].Name != "Data Crystal" || reqs[1].Amount != 500 {
		t.Fatalf("decoded = %+v", reqs)
	}

	if _, err := DecodeRequirements(`[{"kind":"currency"}]`); err == nil {
		t.Fatal("expected error for invalid snapshot")
	}
}
