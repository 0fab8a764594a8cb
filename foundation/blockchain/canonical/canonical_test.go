package canonical_test

import (
	"encoding/json"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/canonical"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestMarshal(t *testing.T) {
	type table struct {
		name  string
		value any
		exp   string
	}

	// Expected values are what Python's json.dumps(value, sort_keys=True)
	// prints for the same input.
	tt := []table{
		{
			name:  "sorted",
			value: map[string]any{"b": 1, "a": []any{1.5, "x"}},
			exp:   `{"a": [1.5, "x"], "b": 1}`,
		},
		{
			name: "block",
			value: map[string]any{
				"index":         uint64(1),
				"transactions":  []any{},
				"timestamp":     1700000000.25,
				"previous_hash": "0",
				"nonce":         uint64(42),
			},
			exp: `{"index": 1, "nonce": 42, "previous_hash": "0", "timestamp": 1700000000.25, "transactions": []}`,
		},
		{
			name: "nested",
			value: map[string]any{
				"transactions": []any{
					map[string]any{"sender": "A", "recipient": "B", "amount": json.Number("10"), "timestamp": 2.0},
				},
			},
			exp: `{"transactions": [{"amount": 10, "recipient": "B", "sender": "A", "timestamp": 2.0}]}`,
		},
		{
			name:  "escapes",
			value: "a\"b\\c\nd\u00e9\U0001F600\x7f",
			exp:   `"a\"b\\c\nd\u00e9\ud83d\ude00\u007f"`,
		},
		{
			name:  "literals",
			value: []any{nil, true, false, -3},
			exp:   `[null, true, false, -3]`,
		},
	}

	t.Log("Given the need to encode values the same way as the other nodes on the network.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling %s.", testID, tst.name)
				{
					got, err := canonical.Marshal(tst.value)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to marshal the value: %s", failed, testID, err)
					}

					if string(got) != tst.exp {
						t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, got)
						t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.exp)
						t.Fatalf("\t%s\tTest %d:\tShould get back the canonical form.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the canonical form.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func TestFloat(t *testing.T) {
	tt := map[float64]string{
		0:                  "0.0",
		1:                  "1.0",
		-2.5:               "-2.5",
		0.1:                "0.1",
		0.0001:             "0.0001",
		0.00001:            "1e-05",
		1e15:               "1000000000000000.0",
		1e16:               "1e+16",
		1700000000.25:      "1700000000.25",
		-1700000000.5:      "-1700000000.5",
	}

	for f, exp := range tt {
		if got := canonical.Float(f); got != exp {
			t.Errorf("\t%s\tShould render %v as %s, got %s.", failed, f, exp, got)
			continue
		}
		t.Logf("\t%s\tShould render %v as %s.", success, f, exp)
	}
}

func TestNumber(t *testing.T) {
	tt := map[string]string{
		"10":   "10",
		"-0":   "0",
		"10.0": "10.0",
		"1e2":  "100.0",
		"2.50": "2.5",
	}

	for n, exp := range tt {
		got, err := canonical.Number(json.Number(n))
		if err != nil {
			t.Fatalf("\t%s\tShould be able to render %s: %s", failed, n, err)
		}
		if got != exp {
			t.Errorf("\t%s\tShould render %s as %s, got %s.", failed, n, exp, got)
			continue
		}
		t.Logf("\t%s\tShould render %s as %s.", success, n, exp)
	}

	if _, err := canonical.Number(json.Number("ten")); err == nil {
		t.Fatalf("\t%s\tShould reject a non numeric literal.", failed)
	}
	t.Logf("\t%s\tShould reject a non numeric literal.", success)
}
