package patch_test

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"cssfix/patch"
)

const deckCardPayload = "\n  display: flex; /* Added */" +
	"\n  flex-direction: column; /* Added */" +
	"\n  justify-content: space-between; /* Adjusted to push actions to bottom */" +
	"\n  position: relative; /* badgeのために必要 */" +
	"\n  overflow: hidden;" +
	"\n  background-color: #2a2a2a; /* 暗めのグレーに統一 */"

const deckCardH3Payload = "\n  margin: 0 60px 10px 0; /* バッジとの重なり防止のため右マージンを追加 */" +
	"\n  color: #8bc34a; /* 黄緑 */" +
	"\n  font-size: 16px;" +
	"\n  white-space: normal; /* Added */" +
	"\n  word-break: break-word; /* Added */" +
	"\n  flex-grow: 1; /* Added */"

const libraryCardPayload = "\n  background-color: #2a2a2a; /* 暗めのグレーに統一 */" +
	"\n  border: 1px solid #444;" +
	"\n  color: white; /* テキスト色を白に */"

func TestProcess(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "deck card block gets layout declarations",
			in:   ".deck-selection-screen .deck-card { color: red; }",
			want: ".deck-selection-screen .deck-card { color: red; " + deckCardPayload + "}",
		},
		{
			name: "deck card heading gets typography declarations",
			in:   ".deck-selection-screen .deck-card h3 {\n  margin: 0;\n}",
			want: ".deck-selection-screen .deck-card h3 {\n  margin: 0;\n" + deckCardH3Payload + "}",
		},
		{
			name: "library card gets dark theme",
			in:   ".card-library-screen .library-card{padding: 4px;}",
			want: ".card-library-screen .library-card{padding: 4px;" + libraryCardPayload + "}",
		},
		{
			name: "invalid tag color overwritten",
			in:   ".invalid-tag { color: #e74c3c; }",
			want: ".invalid-tag { color: #8bc34a; }",
		},
		{
			name: "invalid tag keeps surrounding declarations",
			in:   ".invalid-tag\n{\n  font-weight: bold;\n  color:\t#e74c3c ;\n  margin: 0;\n}",
			want: ".invalid-tag\n{\n  font-weight: bold;\n  color:\t#8bc34a ;\n  margin: 0;\n}",
		},
		{
			name: "invalid tag with other color untouched",
			in:   ".invalid-tag { color: #c0392b; }",
			want: ".invalid-tag { color: #c0392b; }",
		},
		{
			name: "invalid tag property name is matched as substring",
			in:   ".invalid-tag { background-color: #e74c3c; }",
			want: ".invalid-tag { background-color: #8bc34a; }",
		},
		{
			name: "no-break space counts as whitespace",
			in:   ".invalid-tag\u00a0{ color:\u00a0#e74c3c; }",
			want: ".invalid-tag\u00a0{ color:\u00a0#8bc34a; }",
		},
		{
			name: "absent selectors leave text to earlier stages",
			in:   ".other { color: #61DAFB; }\n.library-card { color: #adff2f; }",
			want: ".other { color: #8bc34a; }\n.library-card { color: #8bc34a; }",
		},
		{
			name: "garbled comment",
			in:   "/* レイアウチE */",
			want: "/* レイアウチの */",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	p := patch.New(zaptest.NewLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := p.Process(tt.in)
			if got != tt.want {
				t.Errorf("Process() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestProcess_AllOccurrences(t *testing.T) {
	in := ".deck-selection-screen .deck-card { a: b; }\n" +
		"@media (max-width: 600px) {\n  .deck-selection-screen .deck-card { c: d; }\n}\n"
	want := ".deck-selection-screen .deck-card { a: b; " + deckCardPayload + "}\n" +
		"@media (max-width: 600px) {\n  .deck-selection-screen .deck-card { c: d; " + deckCardPayload + "}\n}\n"

	got, st := patch.New(nil).Process(in)
	if got != want {
		t.Errorf("Process() =\n%q\nwant\n%q", got, want)
	}
	if st.Rules[0] != 2 {
		t.Errorf("deck card rule matches = %d, want 2", st.Rules[0])
	}
}

func TestProcess_UppercaseColorIsMangledFirst(t *testing.T) {
	// "E" -> "の" runs before structural rules, so upper case red never
	// reaches invalid tag rule.
	got, st := patch.New(nil).Process(".invalid-tag { color: #E74C3C; }")
	if want := ".invalid-tag { color: #の74C3C; }"; got != want {
		t.Errorf("Process() = %q, want %q", got, want)
	}
	if st.Rules[2] != 0 {
		t.Errorf("invalid tag rule matches = %d, want 0", st.Rules[2])
	}
}

func TestProcess_SecondRun(t *testing.T) {
	in := ".deck-selection-screen .deck-card { color: red; }\n" +
		".deck-selection-screen .deck-card h3 { }\n" +
		".invalid-tag { color: #e74c3c; }\n" +
		".card-library-screen .library-card { }\n"

	p := patch.New(nil)
	once, _ := p.Process(in)
	twice, st := p.Process(once)

	want := ".deck-selection-screen .deck-card { color: red; " + deckCardPayload + deckCardPayload + "}\n" +
		".deck-selection-screen .deck-card h3 { " + deckCardH3Payload + deckCardH3Payload + "}\n" +
		".invalid-tag { color: #8bc34a; }\n" +
		".card-library-screen .library-card { " + libraryCardPayload + libraryCardPayload + "}\n"
	if twice != want {
		t.Errorf("second run =\n%q\nwant\n%q", twice, want)
	}
	if twice == once {
		t.Error("second run expected to differ from the first one")
	}
	if want := []int{1, 1, 0, 1}; !equalInts(st.Rules, want) {
		t.Errorf("second run rule matches = %v, want %v", st.Rules, want)
	}
}

func TestProcess_Stats(t *testing.T) {
	in := "/* 征E */ .a { color: #adff2f; border-color: #61dafb; }\n.invalid-tag { color: #e74c3c; }"

	_, st := patch.New(nil).Process(in)

	if st.Fragments[0] != 1 {
		t.Errorf("first table entry replacements = %d, want 1", st.Fragments[0])
	}
	if st.FragmentsTotal() != 1 {
		t.Errorf("FragmentsTotal() = %d, want 1", st.FragmentsTotal())
	}
	if st.Colors != 2 {
		t.Errorf("Colors = %d, want 2", st.Colors)
	}
	if want := []int{0, 0, 1, 0}; !equalInts(st.Rules, want) {
		t.Errorf("Rules = %v, want %v", st.Rules, want)
	}
}

func TestNew_Options(t *testing.T) {
	rule := patch.NewAppendRule(".x", "a: b;")
	p := patch.New(nil,
		patch.WithTable(patch.Table{{From: "foo", To: "bar"}}),
		patch.WithRules(rule),
	)

	if len(p.Table()) != 1 || len(p.Rules()) != 1 {
		t.Fatalf("options not applied: table %d, rules %d", len(p.Table()), len(p.Rules()))
	}

	got, _ := p.Process(".x { foo: E; }")
	if want := ".x { bar: E; \n  a: b;}"; got != want {
		t.Errorf("Process() = %q, want %q", got, want)
	}
}

func TestNew_Defaults(t *testing.T) {
	p := patch.New(nil)
	if len(p.Table()) != len(patch.DefaultTable()) {
		t.Errorf("table size = %d, want %d", len(p.Table()), len(patch.DefaultTable()))
	}
	rules := p.Rules()
	if len(rules) != 4 {
		t.Fatalf("rules = %d, want 4", len(rules))
	}
	selectors := []string{
		".deck-selection-screen .deck-card",
		".deck-selection-screen .deck-card h3",
		".invalid-tag",
		".card-library-screen .library-card",
	}
	for i, sel := range selectors {
		if rules[i].Selector != sel {
			t.Errorf("rule %d selector = %q, want %q", i, rules[i].Selector, sel)
		}
	}
	if !strings.Contains(rules[2].String(), "#e74c3c -> #8bc34a") {
		t.Errorf("unexpected rule description %q", rules[2].String())
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
