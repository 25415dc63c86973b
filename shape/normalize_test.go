package shape

import (
	"reflect"
	"testing"
)

// renderJSON marshals a value for comparison in tests.
func renderJSON(t *testing.T, v Value) string {
	t.Helper()
	out, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error: %v", err)
	}
	return string(out)
}

func TestNormalize_Identity(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"plain object", `{"price": 100, "symbol": "BTC"}`},
		{"array passes through", `[{"a": 1}]`},
		{"scalar passes through", `42`},
		{"null passes through", `null`},
		{"lowercase series key does not match", `{"time series (daily)": {"2024-01-01": {"close": 100}}}`},
		{"series key with non-object value", `{"Time Series (Daily)": "oops"}`},
		{"series key with null value", `{"Time Series (Daily)": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustParse(t, tt.src)
			got := Normalize(v)
			if !reflect.DeepEqual(got, v) {
				t.Errorf("Normalize(%s) = %s, want identity", tt.src, renderJSON(t, got))
			}
		})
	}
}

func TestNormalize_TimeSeries(t *testing.T) {
	src := `{
		"Meta Data": {"2. Symbol": "IBM"},
		"Time Series (Daily)": {
			"2024-01-02": {"open": "101", "close": "102"},
			"2024-01-01": {"open": "99", "close": "100"}
		}
	}`

	got := renderJSON(t, Normalize(mustParse(t, src)))
	want := `[{"date":"2024-01-02","open":"101","close":"102"},{"date":"2024-01-01","open":"99","close":"100"}]`
	if got != want {
		t.Errorf("Normalize() = %s, want %s", got, want)
	}
}

func TestNormalize_AdjustedSeries(t *testing.T) {
	src := `{"Weekly Adjusted Series": {"2024-01-01": {"close": 100}}}`

	got := renderJSON(t, Normalize(mustParse(t, src)))
	want := `[{"date":"2024-01-01","close":100}]`
	if got != want {
		t.Errorf("Normalize() = %s, want %s", got, want)
	}
}

func TestNormalize_FirstSeriesKeyWins(t *testing.T) {
	src := `{
		"Time Series (Daily)": {"2024-01-01": {"close": 1}},
		"Time Series (Weekly)": {"2024-01-07": {"close": 7}}
	}`

	got := renderJSON(t, Normalize(mustParse(t, src)))
	want := `[{"date":"2024-01-01","close":1}]`
	if got != want {
		t.Errorf("Normalize() = %s, want %s (first key in document order)", got, want)
	}
}

func TestNormalize_RowDateCollision(t *testing.T) {
	// a row's own "date" member wins but the leading position is kept
	src := `{"Time Series (Daily)": {"2024-01-01": {"date": "override", "close": 1}}}`

	got := renderJSON(t, Normalize(mustParse(t, src)))
	want := `[{"date":"override","close":1}]`
	if got != want {
		t.Errorf("Normalize() = %s, want %s", got, want)
	}
}

func TestNormalize_NonObjectRows(t *testing.T) {
	// scalar rows still gain a date member and nothing else
	src := `{"Time Series (Daily)": {"2024-01-01": 5}}`

	got := renderJSON(t, Normalize(mustParse(t, src)))
	want := `[{"date":"2024-01-01"}]`
	if got != want {
		t.Errorf("Normalize() = %s, want %s", got, want)
	}
}

func TestNormalize_EmptySeries(t *testing.T) {
	got := renderJSON(t, Normalize(mustParse(t, `{"Time Series (Daily)": {}}`)))
	if got != `[]` {
		t.Errorf("Normalize() = %s, want []", got)
	}
}
