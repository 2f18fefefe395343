package parsing

import "testing"

func TestClassifyContent(t *testing.T) {
	p := NewParserWithGrammar(DefaultGrammar())

	cases := []struct {
		name         string
		filename     string
		wantRevision bool
		wantQuestion bool
	}{
		{"plain lesson", "M2-T2-U2-L2-SCI-P0078-Name.mp4", false, false},
		{"question number token", "M2-T2-U2-L2-SCI-AR-Name-Q1.mp4", false, true},
		{"question number lowercase", "M2-T2-SCI-Name-q12.mp4", false, true},
		{"quiz whole token", "M2-T2-SCI-quiz.mp4", false, true},
		{"test whole token", "M2-T2-SCI-test.mp4", false, true},
		{"quiz inside phrase is not a question", "math quiz for practice.mp4", false, false},
		{"revision marker token", "RE-M2-T1-SCI-Name.mp4", true, false},
		{"revision word", "M2-T1-SCI-revision-Name.mp4", true, false},
		{"revision with question pattern", "RE-M2-Name-Q3.mp4", true, true},
		{"arabic question word with number", "RE-M2-السؤال-1.mp4", true, true},
		{"arabic question in secondary text", "M2-T1-SCI-{سؤال 4}.mp4", false, true},
		{"arabic question word without number", "M2-سؤال-عام.mp4", false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parsed := p.Parse(tc.filename, "2026")
			if got := parsed.ContentType.IsRevision(); got != tc.wantRevision {
				t.Errorf("IsRevision = %v, want %v", got, tc.wantRevision)
			}
			if got := parsed.ContentType.IsQuestion(); got != tc.wantQuestion {
				t.Errorf("IsQuestion = %v, want %v", got, tc.wantQuestion)
			}
		})
	}
}

func TestContentTypeString(t *testing.T) {
	cases := []struct {
		content ContentType
		want    string
	}{
		{ContentStandard, "standard"},
		{ContentRevision, "revision"},
		{ContentQuestion, "question"},
		{ContentRevision | ContentQuestion, "revision+question"},
	}
	for _, tc := range cases {
		if got := tc.content.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}
