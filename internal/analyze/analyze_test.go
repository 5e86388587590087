package analyze

import (
	"reflect"
	"testing"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty string", text: "", want: []string{}},
		{name: "whitespace only", text: "  \n\t ", want: []string{}},
		{name: "stop words removed", text: "a funny film about cats", want: []string{"funny", "film", "cats"}},
		{name: "mixed case and punctuation", text: "Sci-Fi, Drama!", want: []string{"sci", "fi", "drama"}},
		{name: "single letters dropped", text: "x y zz", want: []string{"zz"}},
		{name: "only stop words", text: "the and of a", want: []string{}},
		{name: "genre separators", text: "comedy|romance", want: []string{"comedy", "romance"}},
	}

	a := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Tokens(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokens(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestTerms(t *testing.T) {
	a := Default()

	got := a.Terms("comedy a funny film about cats")
	want := []string{"comedy", "funny", "film", "cats", "comedy funny", "funny film", "film cats"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Terms() = %v, want %v", got, want)
	}

	if got := a.Terms("the of"); len(got) != 0 {
		t.Errorf("Terms() of stop words = %v, want empty", got)
	}

	uni := New(Options{MaxNGram: 1})
	if got := uni.Terms("hilarious cat comedy"); !reflect.DeepEqual(got, []string{"hilarious", "cat", "comedy"}) {
		t.Errorf("unigram Terms() = %v", got)
	}
}

func TestTermsKeepsDuplicates(t *testing.T) {
	got := Default().Terms("cat comedy cat")
	counts := map[string]int{}
	for _, term := range got {
		counts[term]++
	}
	if counts["cat"] != 2 {
		t.Errorf("count(cat) = %d, want 2", counts["cat"])
	}
	if counts["cat comedy"] != 1 || counts["comedy cat"] != 1 {
		t.Errorf("bigram counts = %v", counts)
	}
}

func TestStemming(t *testing.T) {
	a := New(Options{Stem: true})
	got := a.Tokens("running cats")
	want := []string{"run", "cat"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("stemmed Tokens() = %v, want %v", got, want)
	}
}

func TestParseTokenizer(t *testing.T) {
	tests := []struct {
		in      string
		want    Tokenizer
		wantErr bool
	}{
		{"", Regexp, false},
		{"regexp", Regexp, false},
		{"PROSE", Prose, false},
		{"bpe", Regexp, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTokenizer(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTokenizer(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTokenizer(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsStopWord(t *testing.T) {
	if !IsStopWord("about") {
		t.Error("about should be a stop word")
	}
	if IsStopWord("comedy") {
		t.Error("comedy should not be a stop word")
	}
	if len(stopwords) != 318 {
		t.Errorf("stop word list has %d entries, want 318", len(stopwords))
	}
}
