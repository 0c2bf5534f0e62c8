package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/sheetquiz/internal/core"
	"github.com/JonMunkholm/sheetquiz/internal/quiz"
	"github.com/JonMunkholm/sheetquiz/internal/settings"
	"github.com/JonMunkholm/sheetquiz/internal/weak"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		notWant []string
	}{
		{"empty", "  ", nil, []string{"<p>"}},
		{"emphasis", "**two** is *even*", []string{"<strong>two</strong>", "<em>even</em>"}, nil},
		{"raw html dropped", "ok <script>alert(1)</script>", []string{"ok"}, []string{"<script>"}},
		{"unsafe link", "[x](javascript:alert(1))", nil, []string{`href="javascript:`}},
		{"list", "- a\n- b", []string{"<li>a</li>", "<li>b</li>"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderMarkdown(tt.in)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("RenderMarkdown(%q) = %q, missing %q", tt.in, got, w)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(got, nw) {
					t.Errorf("RenderMarkdown(%q) = %q, should not contain %q", tt.in, got, nw)
				}
			}
		})
	}
}

func TestCard(t *testing.T) {
	q := quiz.Question{
		ID: "1", Subject: "Math", Unit: "Alg<ebra>",
		Question: "<b>1+1</b>?", A: "1", B: "2", D: "4",
		Answer: "B", Explanation: "_two_",
	}

	unanswered := renderString(t, Card("s 1", core.Card{Index: 2, Question: q}))
	for _, want := range []string{
		`id="q2"`,
		"Q3. &lt;b&gt;1+1&lt;/b&gt;?",
		"Alg&lt;ebra&gt;",
		`action="/session/s%201/answer"`,
		`value="A">A： 1`,
		`value="D">D： 4`,
	} {
		if !strings.Contains(unanswered, want) {
			t.Errorf("card missing %q:\n%s", want, unanswered)
		}
	}
	if strings.Contains(unanswered, `value="C"`) {
		t.Error("empty option C should not be rendered")
	}
	if strings.Contains(unanswered, "解説") {
		t.Error("explanation should be hidden before any answer")
	}

	answered := renderString(t, Card("s1", core.Card{
		Index:    0,
		Question: q,
		Marks:    []core.Mark{{Letter: "A"}, {Letter: "B", Correct: true}},
	}))
	for _, want := range []string{`value="A" class="wrong"`, `value="B" class="correct"`, "解説:<p><em>two</em></p>"} {
		if !strings.Contains(answered, want) {
			t.Errorf("answered card missing %q:\n%s", want, answered)
		}
	}
}

func TestLayout_ThemeAndFont(t *testing.T) {
	body := templ.Raw("<p>x</p>")
	renderLayout := func(title string, prefs settings.Prefs) string {
		t.Helper()
		var buf bytes.Buffer
		ctx := templ.WithChildren(context.Background(), body)
		if err := Layout(title, prefs).Render(ctx, &buf); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		return buf.String()
	}

	dark := renderLayout("T<", settings.Prefs{Theme: settings.ThemeDark, FontScale: 1})
	if !strings.Contains(dark, `<body style="font-size:16px;">`) {
		t.Errorf("dark layout body tag wrong:\n%s", dark)
	}
	if !strings.Contains(dark, "<title>T&lt;</title>") {
		t.Error("title should be escaped")
	}
	if !strings.Contains(dark, `id="theme">ライト</button>`) {
		t.Error("dark theme should offer the light toggle")
	}

	light := renderLayout("T", settings.Prefs{Theme: settings.ThemeLight, FontScale: 1.25})
	if !strings.Contains(light, `<body class="light" style="font-size:20px;">`) {
		t.Errorf("light layout body tag wrong:\n%s", light)
	}
	if !strings.Contains(light, "<main><p>x</p></main>") {
		t.Error("layout should render its children inside main")
	}
}

func TestHome_Subjects(t *testing.T) {
	prefs := settings.Prefs{Theme: settings.ThemeDark, FontScale: 1, Order: quiz.OrderRandom, Limit: 5}

	empty := renderString(t, Home(HomeData{Prefs: prefs}))
	if !strings.Contains(empty, "CSVの読み込みに失敗している可能性があります。") {
		t.Error("empty subject list should show the load hint")
	}
	if !strings.Contains(empty, `<option value="random" selected>`) {
		t.Error("saved order should be selected")
	}
	if !strings.Contains(empty, `value="5"`) {
		t.Error("saved limit should prefill the form")
	}

	banner := core.MapError(context.DeadlineExceeded)
	full := renderString(t, Home(HomeData{
		Prefs:    prefs,
		Subjects: []core.SubjectInfo{{Name: "数学", Questions: 12}},
		Banner:   &banner,
	}))
	if !strings.Contains(full, `value="数学">数学 <span class="count">12</span>`) {
		t.Errorf("subject pill missing:\n%s", full)
	}
	if !strings.Contains(full, "Code: "+banner.Code) {
		t.Error("banner should carry the error code")
	}
}

func TestWeakPage(t *testing.T) {
	items := []quiz.Question{
		{ID: "1", Subject: "Math", Question: "1+1?", Answer: "B"},
		{ID: "3", Subject: "Art", Question: "Sky?", Answer: "A", Explanation: "look up"},
	}
	view := core.WeakView{
		Filter:   "Art",
		Items:    weak.Filter(items, "Art"),
		Subjects: weak.Subjects(items),
		Total:    len(items),
	}

	got := renderString(t, WeakPage(settings.Prefs{FontScale: 1}, view))
	for _, want := range []string{
		`<option value="Art" selected>Art</option>`,
		"[Art] Sky?",
		"答え: A",
		"<p>look up</p>",
		`action="/weak/1/delete?subject=Art"`,
		"1 / 2件",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("weak page missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "1+1?") {
		t.Error("filtered-out item should not render")
	}

	none := renderString(t, WeakPage(settings.Prefs{FontScale: 1}, core.WeakView{}))
	if !strings.Contains(none, "苦手な問題はありません。") {
		t.Error("empty list message missing")
	}
}

func TestComponents_EscapeByContext(t *testing.T) {
	hostile := `x" onmouseover="alert(1)`
	prefs := settings.Prefs{FontScale: 1}

	home := renderString(t, Home(HomeData{
		Prefs:    prefs,
		Subjects: []core.SubjectInfo{{Name: hostile, Questions: 1}},
	}))
	if strings.Contains(home, `onmouseover="alert(1)`) {
		t.Errorf("subject broke out of its attribute:\n%s", home)
	}
	if !strings.Contains(home, `value="x&#34; onmouseover=&#34;alert(1)"`) {
		t.Errorf("subject attribute not escaped:\n%s", home)
	}

	weakItems := []quiz.Question{{ID: "1", Subject: "<A&B>", Question: "q", Answer: "A"}}
	weakPage := renderString(t, WeakPage(prefs, core.WeakView{
		Filter:   "<A&B>",
		Items:    weak.Filter(weakItems, "<A&B>"),
		Subjects: weak.Subjects(weakItems),
		Total:    1,
	}))
	for _, want := range []string{
		`<option value="&lt;A&amp;B&gt;" selected>&lt;A&amp;B&gt;</option>`,
		`action="/weak/0/delete?subject=%3CA%26B%3E"`,
		"[&lt;A&amp;B&gt;] q",
	} {
		if !strings.Contains(weakPage, want) {
			t.Errorf("weak page missing %q:\n%s", want, weakPage)
		}
	}

	card := renderString(t, Card(`a/"b`, core.Card{Question: quiz.Question{Question: "q", A: "1", Answer: "A"}}))
	if !strings.Contains(card, `action="/session/a%2F%22b/answer"`) {
		t.Errorf("session id not escaped in the answer URL:\n%s", card)
	}
}
