package validator

import "testing"

type sample struct {
	Type    string `json:"type" validate:"required,post_type"`
	Zipcode string `json:"zipcode" validate:"required,zipcode"`
	Reason  string `json:"reason" validate:"omitempty,report_reason"`
}

func TestValidateAcceptsEnums(t *testing.T) {
	if errs := Validate(sample{Type: "offer", Zipcode: "94110", Reason: "spam"}); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateRejectsUnknownEnum(t *testing.T) {
	errs := Validate(sample{Type: "auction", Zipcode: "94110"})
	if _, ok := errs["type"]; !ok {
		t.Fatalf("expected type error, got %v", errs)
	}
}

func TestValidateRejectsMalformedZipcode(t *testing.T) {
	errs := Validate(sample{Type: "offer", Zipcode: "9411A"})
	if _, ok := errs["zipcode"]; !ok {
		t.Fatalf("expected zipcode error, got %v", errs)
	}
}

func TestValidateRequired(t *testing.T) {
	errs := Validate(sample{})
	if errs["type"] != "This field is required" {
		t.Fatalf("expected required message, got %v", errs)
	}
}
