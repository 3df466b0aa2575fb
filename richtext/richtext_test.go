package richtext

import "testing"

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "hello", "hello"},
		{"escaped", "a < b & c", "a &lt; b &amp; c"},
		{"newline runs collapse", "a\n\n\nb", "a<br>b"},
		{
			"markdown link",
			"see [docs](https://example.com/docs) now",
			`see <a href="https://example.com/docs" target="_blank">docs</a> now`,
		},
		{
			"internal link",
			"[home](https://notes.test/)",
			`<a href="https://notes.test/" target="_top">home</a>`,
		},
		{
			"bare url shortened",
			"https://example.com/a/very/long/path/indeed",
			`<a href="https://example.com/a/very/long/path/indeed" target="_blank">https://example.com/a/very/lon...</a>`,
		},
		{
			"no break after link",
			"https://example.com\nnext",
			`<a href="https://example.com" target="_blank">https://example.com</a>next`,
		},
		{
			"break after text kept",
			"x https://example.com y\nnext",
			`x <a href="https://example.com" target="_blank">https://example.com</a> y<br>next`,
		},
		{"not a link scheme", "ftp://example.com", "ftp://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.text, "notes.test"); got != tt.want {
				t.Errorf("Render(%q)\n got %s\nwant %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestPlain(t *testing.T) {
	got := Plain("read [the guide](https://example.com/g)\n\nhttps://example.com/a/very/long/path/indeed")
	want := "read the guide\nhttps://example.com/a/very/lon..."
	if got != want {
		t.Errorf("Plain() = %q, want %q", got, want)
	}
}

func TestParse(t *testing.T) {
	spans := Parse("a [b](http://c.d) https://e.f")
	kinds := []SpanKind{SpanText, SpanLink, SpanText, SpanURL}
	if len(spans) != len(kinds) {
		t.Fatalf("got %d spans: %+v", len(spans), spans)
	}
	for i, k := range kinds {
		if spans[i].Kind != k {
			t.Errorf("span %d kind = %v, want %v", i, spans[i].Kind, k)
		}
	}
	if spans[1].Label != "b" || spans[1].URL != "http://c.d" || spans[3].URL != "https://e.f" {
		t.Errorf("spans = %+v", spans)
	}
}

func TestIsInternal(t *testing.T) {
	if !IsInternal("https://Notes.Test/x", "notes.test") {
		t.Error("host comparison should ignore case")
	}
	if IsInternal("https://other.test/", "notes.test") || IsInternal("https://notes.test/", "") {
		t.Error("unexpected internal link")
	}
}
