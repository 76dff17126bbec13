package parse

import (
	"errors"
	"testing"
	"time"

	"orderkpi/internal/model"
)

func mustKind(t *testing.T, err error, want Kind) {
	t.Helper()
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("want *parse.Error, got %v", err)
	}
	if pe.Kind != want {
		t.Fatalf("want kind %s, got %s (%v)", want, pe.Kind, err)
	}
}

func TestLine_ValidISO(t *testing.T) {
	o, err := Line("o1,2025-03-01T12:00:00Z,c1,i1,2,10.0,USD,PLACED")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	if o.OrderID != "o1" || o.CustomerID != "c1" || o.ItemID != "i1" {
		t.Fatalf("bad ids: %+v", o)
	}
	if !o.Timestamp.Equal(want) {
		t.Fatalf("timestamp = %v, want %v", o.Timestamp, want)
	}
	if o.Qty != 2 || o.Price != 10.0 || o.Currency != "USD" || o.Status != model.StatusPlaced {
		t.Fatalf("bad fields: %+v", o)
	}
	if o.CouponCode != nil {
		t.Fatalf("coupon should be absent, got %q", *o.CouponCode)
	}
}

func TestLine_Deterministic(t *testing.T) {
	const line = " o1 , 2025-03-01T12:00:00Z , c1 , i1 , 2 , 10.0 , USD , PLACED , SAVE10 "
	a, err := Line(line)
	if err != nil {
		t.Fatalf("parse a: %v", err)
	}
	b, err := Line(line)
	if err != nil {
		t.Fatalf("parse b: %v", err)
	}
	if a.OrderID != b.OrderID || !a.Timestamp.Equal(b.Timestamp) || a.Qty != b.Qty || a.Price != b.Price {
		t.Fatalf("parse not deterministic: %+v vs %+v", a, b)
	}
	if a.CouponCode == nil || *a.CouponCode != "SAVE10" {
		t.Fatalf("coupon not trimmed/kept: %+v", a.CouponCode)
	}
}

func TestLine_EmptyTrailingCouponIsAbsent(t *testing.T) {
	o, err := Line("o1,2025-03-01T12:00:00Z,c1,i1,2,10.0,USD,PLACED,")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if o.CouponCode != nil {
		t.Fatalf("empty trailing coupon must normalize to absent, got %q", *o.CouponCode)
	}
}

func TestLine_TooFewFields(t *testing.T) {
	_, err := Line("o1,2025-03-01T12:00:00Z,c1,i1,2,10.0,USD")
	mustKind(t, err, KindParse)
}

func TestLine_InvalidQty(t *testing.T) {
	_, err := Line("o1,2025-03-01T12:00:00Z,c1,i1,two,10.0,USD,PLACED")
	mustKind(t, err, KindValidation)

	_, err = Line("o1,2025-03-01T12:00:00Z,c1,i1,0,10.0,USD,PLACED")
	mustKind(t, err, KindValidation)

	_, err = Line("o1,2025-03-01T12:00:00Z,c1,i1,-3,10.0,USD,PLACED")
	mustKind(t, err, KindValidation)
}

func TestLine_InvalidPrice(t *testing.T) {
	_, err := Line("o1,2025-03-01T12:00:00Z,c1,i1,1,ten,USD,PLACED")
	mustKind(t, err, KindValidation)

	_, err = Line("o1,2025-03-01T12:00:00Z,c1,i1,1,-0.5,USD,PLACED")
	mustKind(t, err, KindValidation)
}

func TestLine_UnknownStatus(t *testing.T) {
	_, err := Line("o1,2025-03-01T12:00:00Z,c1,i1,1,10.0,USD,REFUNDED")
	mustKind(t, err, KindValidation)
}

func TestLine_BadTimestampIsParseError(t *testing.T) {
	_, err := Line("o1,not-a-time,c1,i1,1,10.0,USD,PLACED")
	mustKind(t, err, KindParse)
}

func TestToUTC_EpochSeconds(t *testing.T) {
	got, err := ToUTC("1709251200")
	if err != nil {
		t.Fatalf("epoch: %v", err)
	}
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestToUTC_OffsetConvertsToUTC(t *testing.T) {
	got, err := ToUTC("2025-03-01T09:00:00+02:00")
	if err != nil {
		t.Fatalf("offset: %v", err)
	}
	want := time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Fatalf("location = %v, want UTC", got.Location())
	}
}

func TestToUTC_BareDateTimeIsUTC(t *testing.T) {
	got, err := ToUTC("2025-03-01T12:00:00")
	if err != nil {
		t.Fatalf("bare: %v", err)
	}
	want := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestToUTC_Rejects(t *testing.T) {
	for _, ts := range []string{"", "yesterday", "2025-13-01T00:00:00Z", "2025-02-30T00:00:00Z", "12h30"} {
		if _, err := ToUTC(ts); err == nil {
			t.Fatalf("ToUTC(%q) should fail", ts)
		} else {
			mustKind(t, err, KindParse)
		}
	}
}
