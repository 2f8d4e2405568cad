package compare

import (
	"math"
	"testing"

	"email-qa/pkg/models"
)

func TestCompareIdentical(t *testing.T) {
	// Self-comparison with no URLs on either side is a perfect match.
	doc := &models.ExtractedDocument{Text: "The warranty clause stays as written."}
	res := New().Compare(doc, doc.Text, nil)

	if res.Score != 100.0 {
		t.Errorf("score = %v, want 100.0", res.Score)
	}
	if len(res.Diffs) != 0 {
		t.Errorf("expected no diff entries, got %v", res.Diffs)
	}
}

func TestScoreMonotonicInSharedContent(t *testing.T) {
	e := New()
	doc := &models.ExtractedDocument{Text: "abc"}
	unrelated := e.Compare(doc, "xyz", nil).Score
	similar := e.Compare(doc, "abd", nil).Score
	if unrelated >= similar {
		t.Errorf("score(abc,xyz)=%v should be < score(abc,abd)=%v", unrelated, similar)
	}
}

func TestDiffEntriesFromOpcodes(t *testing.T) {
	doc := &models.ExtractedDocument{Text: "keep THIS part"}
	res := New().Compare(doc, "keep part", nil)

	if len(res.Diffs) == 0 {
		t.Fatal("expected at least one diff entry")
	}
	for _, d := range res.Diffs {
		if d.Kind != models.DiffKindText {
			t.Errorf("kind = %q, want text", d.Kind)
		}
		if d.Source != "pdf" {
			t.Errorf("source = %q, want pdf", d.Source)
		}
		if d.Status != models.StatusNotFoundInEmail {
			t.Errorf("status = %q, want %q", d.Status, models.StatusNotFoundInEmail)
		}
	}
	// Spans come from the original-case PDF text.
	found := false
	for _, d := range res.Diffs {
		if d.Extracted == "THIS " {
			found = true
		}
	}
	if !found {
		t.Errorf("expected verbatim span \"THIS \" in diffs, got %v", res.Diffs)
	}
}

func TestCommentAtThresholdNotImplemented(t *testing.T) {
	// "abcd" vs "abcxyz": one matching block of 3, ratio = 2*3/10 = 0.6,
	// exactly at the threshold. Strict inequality means not implemented.
	verdicts := New().CommentVerdicts([]string{"abcd"}, "abcxyz")
	if len(verdicts) != 1 {
		t.Fatalf("expected 1 verdict, got %d", len(verdicts))
	}
	v := verdicts[0]
	if math.Abs(v.Ratio-0.6) > 1e-9 {
		t.Fatalf("ratio = %v, want 0.6", v.Ratio)
	}
	if v.Implemented {
		t.Error("ratio exactly at threshold must classify as not implemented")
	}
}

func TestCommentAboveThresholdImplemented(t *testing.T) {
	verdicts := New().CommentVerdicts(
		[]string{"remove the warranty clause"},
		"we remove the warranty clause as requested",
	)
	if len(verdicts) != 1 {
		t.Fatalf("expected 1 verdict, got %d", len(verdicts))
	}
	if !verdicts[0].Implemented {
		t.Errorf("expected implemented, ratio = %v", verdicts[0].Ratio)
	}
}

func TestCommentOrderPreserved(t *testing.T) {
	comments := []string{"third first", "alpha", "zzz last"}
	verdicts := New().CommentVerdicts(comments, "some email body")
	if len(verdicts) != 3 {
		t.Fatalf("expected 3 verdicts, got %d", len(verdicts))
	}
	for i, c := range comments {
		if verdicts[i].Comment != c {
			t.Errorf("verdict %d = %q, want %q (order must be stable)", i, verdicts[i].Comment, c)
		}
	}
}

func TestURLComparisonIsExact(t *testing.T) {
	doc := &models.ExtractedDocument{
		Text: "see terms",
		URLs: []string{"http://a.com/x"},
	}
	res := New().Compare(doc, "see terms", []string{"http://a.com/x/"})

	var urlDiffs []models.DiffEntry
	for _, d := range res.Diffs {
		if d.Kind == models.DiffKindURL {
			urlDiffs = append(urlDiffs, d)
		}
	}
	if len(urlDiffs) != 1 {
		t.Fatalf("trailing-slash difference must count as missing, got %v", res.Diffs)
	}
	if urlDiffs[0].Extracted != "http://a.com/x" || urlDiffs[0].Status != models.StatusMissingInEmail {
		t.Errorf("unexpected url diff: %+v", urlDiffs[0])
	}
}

func TestURLPresentNotReported(t *testing.T) {
	doc := &models.ExtractedDocument{
		Text: "see terms",
		URLs: []string{"http://a.com/x", "http://a.com/x"},
	}
	res := New().Compare(doc, "see terms", []string{"http://a.com/x"})
	for _, d := range res.Diffs {
		if d.Kind == models.DiffKindURL {
			t.Errorf("url present in email must not be reported: %+v", d)
		}
	}
}

func TestLegalReviewScenario(t *testing.T) {
	// Review PDF asks for Section 4 to be removed; the final email shares
	// words with the comment but in a different order and context, so the
	// block-matching ratio stays below the threshold.
	doc := &models.ExtractedDocument{
		Text:     "Please remove Section 4 discussing warranty.",
		Comments: []string{"Section 4 must be removed"},
		URLs:     []string{"http://legal.example.com/terms"},
	}
	emailText := "This agreement has no Section 4."

	res := New().Compare(doc, emailText, nil)

	if len(res.Comments) != 1 {
		t.Fatalf("expected 1 verdict, got %d", len(res.Comments))
	}
	if res.Comments[0].Implemented {
		t.Errorf("verdict should be not implemented, ratio = %v", res.Comments[0].Ratio)
	}
	if res.Comments[0].Ratio >= DefaultCommentThreshold {
		t.Errorf("ratio %v should be below %v", res.Comments[0].Ratio, DefaultCommentThreshold)
	}

	var urlDiffs int
	for _, d := range res.Diffs {
		if d.Kind == models.DiffKindURL {
			urlDiffs++
			if d.Extracted != "http://legal.example.com/terms" {
				t.Errorf("unexpected missing url %q", d.Extracted)
			}
		}
	}
	if urlDiffs != 1 {
		t.Errorf("expected exactly one missing-url entry, got %d", urlDiffs)
	}
}

func TestRatioCaseFolded(t *testing.T) {
	e := New()
	if r := e.Ratio("SECTION 4", "section 4"); r != 1.0 {
		t.Errorf("case-folded ratio = %v, want 1.0", r)
	}
}
