package sheet

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParse_Empty(t *testing.T) {
	got := Parse("")
	if len(got) != 0 {
		t.Fatalf("Parse(\"\") returned %d records, want 0", len(got))
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	got := Parse("id,subject\n")
	if len(got) != 0 {
		t.Fatalf("header-only input returned %d records, want 0", len(got))
	}
}

func TestParse_LoneCRIsDropped(t *testing.T) {
	got := Parse("a,b\n1,2\r3\n")
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if v := got[0].Value("b"); v != "23" {
		t.Errorf("b = %q, want %q", v, "23")
	}
}

func TestParse_RowCount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"single row with newline", "a,b\n1,2\n", 1},
		{"single row without newline", "a,b\n1,2", 1},
		{"crlf endings", "a,b\r\n1,2\r\n3,4\r\n", 2},
		{"trailing blank line kept", "a,b\n1,2\n\n", 2},
		{"quoted newline is one row", "a,b\n\"x\ny\",2\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if len(got) != tt.want {
				t.Errorf("got %d records, want %d", len(got), tt.want)
			}
			for i, rec := range got {
				if rec.Len() != 2 {
					t.Errorf("record %d has %d keys, want 2", i, rec.Len())
				}
			}
		})
	}
}

func TestParse_TrailingBlankLineIsEmptyRecord(t *testing.T) {
	got := Parse("a,b\n1,2\n\n")
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[1].Value("a") != "" || got[1].Value("b") != "" {
		t.Errorf("blank line record = %v, want empty values", got[1].Map())
	}
	if _, ok := got[1].Get("b"); !ok {
		t.Error("blank line record should still carry every header key")
	}
}

func TestParse_EscapedQuote(t *testing.T) {
	got := Parse("q\n\"He said \"\"hi\"\"\"\n")
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if v := got[0].Value("q"); v != `He said "hi"` {
		t.Errorf("got %q, want %q", v, `He said "hi"`)
	}
}

func TestParse_EmbeddedDelimiters(t *testing.T) {
	input := "id,text\n1,\"a, b\nc\"\n"
	got := Parse(input)
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if v := got[0].Value("text"); v != "a, b\nc" {
		t.Errorf("got %q, want %q", v, "a, b\nc")
	}
}

func TestParse_CRInsideQuotesKept(t *testing.T) {
	got := Parse("t\n\"a\r\nb\"\n")
	if v := got[0].Value("t"); v != "a\r\nb" {
		t.Errorf("got %q, want %q", v, "a\r\nb")
	}
}

func TestParse_QuoteMidFieldOpensQuotedMode(t *testing.T) {
	got := Parse("t,u\nab\"c,d\"e,f\n")
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if v := got[0].Value("t"); v != "abc,de" {
		t.Errorf("t = %q, want %q", v, "abc,de")
	}
	if v := got[0].Value("u"); v != "f" {
		t.Errorf("u = %q, want %q", v, "f")
	}
}

func TestParse_TrimsHeaderAndCells(t *testing.T) {
	got := Parse(" id , subject \n 7 ,  Math  \n")
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if v := got[0].Value("id"); v != "7" {
		t.Errorf("id = %q, want %q", v, "7")
	}
	if v := got[0].Value("subject"); v != "Math" {
		t.Errorf("subject = %q, want %q", v, "Math")
	}
}

func TestParse_ShortAndLongRows(t *testing.T) {
	got := Parse("a,b,c\n1\n1,2,3,4\n")
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}

	short := got[0]
	if short.Value("a") != "1" || short.Value("b") != "" || short.Value("c") != "" {
		t.Errorf("short row = %v", short.Map())
	}
	if _, ok := short.Get("c"); !ok {
		t.Error("short row should carry key c")
	}

	long := got[1]
	if long.Len() != 3 {
		t.Errorf("long row has %d keys, want 3", long.Len())
	}
	if long.Value("c") != "3" {
		t.Errorf("c = %q, want %q", long.Value("c"), "3")
	}
}

func TestParse_DuplicateHeaderShadows(t *testing.T) {
	got := Parse("x,y,x\n1,2,3\n")
	rec := got[0]
	if rec.Value("x") != "3" {
		t.Errorf("x = %q, want later column value %q", rec.Value("x"), "3")
	}
	keys := rec.Keys()
	if strings.Join(keys, ",") != "x,y" {
		t.Errorf("keys = %v, want [x y]", keys)
	}
}

func TestParse_KeysFollowHeaderOrder(t *testing.T) {
	got := Parse("question,id,answer\nq,1,A\n")
	keys := got[0].Keys()
	want := []string{"question", "id", "answer"}
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Errorf("keys = %v, want %v", keys, want)
	}
}

func TestParse_UnicodeCells(t *testing.T) {
	got := Parse("科目,問題\n数学,\"1+1は？\"\n")
	if v := got[0].Value("科目"); v != "数学" {
		t.Errorf("科目 = %q, want %q", v, "数学")
	}
	if v := got[0].Value("問題"); v != "1+1は？" {
		t.Errorf("問題 = %q", v)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	tricky := "comma, newline\nand \"quote\""
	header := []string{"id", "text"}
	in := []Record{
		NewRecord(header, []string{"1", tricky}),
		NewRecord(header, []string{"2", "plain"}),
	}

	var buf bytes.Buffer
	if err := Encode(&buf, header, in); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	out := Parse(buf.String())
	if len(out) != len(in) {
		t.Fatalf("round trip returned %d records, want %d", len(out), len(in))
	}
	if v := out[0].Value("text"); v != tricky {
		t.Errorf("round trip text = %q, want %q", v, tricky)
	}
	if v := out[1].Value("text"); v != "plain" {
		t.Errorf("round trip text = %q, want %q", v, "plain")
	}
}

func TestParseReader(t *testing.T) {
	got, err := ParseReader(strings.NewReader("a\n1\n2"))
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d records, want 2", len(got))
	}
}

func TestRecord_MarshalJSON_Ordered(t *testing.T) {
	rec := NewRecord([]string{"z", "a"}, []string{"1", "\"2\""})
	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"z":"1","a":"\"2\""}`
	if string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}
}

func TestRecords_Empty(t *testing.T) {
	if got := Records(nil); got != nil {
		t.Errorf("Records(nil) = %v, want nil", got)
	}
}
