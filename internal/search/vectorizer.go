package search

import (
	"math"
)

// Vector is a sparse term -> weight mapping; absent terms weigh 0
type Vector map[string]float64

// IDF maps each term of a corpus to its inverse document frequency
type IDF map[string]float64

// Vectorizer turns token sequences into weight vectors
type Vectorizer interface {
	Fit(docs []*Document)
	Transform(tokens []string) Vector
}

// TFIDFVectorizer implements Term Frequency - Inverse Document Frequency
type TFIDFVectorizer struct {
	IDF     IDF
	NumDocs int
}

func NewTFIDFVectorizer() *TFIDFVectorizer {
	return &TFIDFVectorizer{
		IDF: make(IDF),
	}
}

// Fit computes TF, IDF and TF-IDF for every document of the corpus.
// Tokens must already be set on each document.
func (v *TFIDFVectorizer) Fit(docs []*Document) {
	tfs := make([]Vector, len(docs))
	for i, d := range docs {
		d.TF = TermFrequency(d.Tokens)
		tfs[i] = d.TF
	}

	v.IDF = InverseDocumentFrequency(tfs)
	v.NumDocs = len(docs)

	for _, d := range docs {
		d.Vector = Weight(d.TF, v.IDF)
	}
}

// Transform weights a query against the fitted IDF table.
// Terms never seen during Fit get the df=0 weight.
func (v *TFIDFVectorizer) Transform(tokens []string) Vector {
	tf := TermFrequency(tokens)
	unseen := 1.0
	if v.NumDocs > 0 {
		unseen = idf(v.NumDocs, 0)
	}

	vector := make(Vector, len(tf))
	for term, freq := range tf {
		w, ok := v.IDF[term]
		if !ok {
			w = unseen
		}
		vector[term] = freq * w
	}
	return vector
}

// SelfTransform weights tokens as a single-document corpus of their own,
// ignoring the fitted IDF table.
func SelfTransform(tokens []string) Vector {
	tf := TermFrequency(tokens)
	return Weight(tf, InverseDocumentFrequency([]Vector{tf}))
}

// TermFrequency returns count/len(tokens) per distinct token
func TermFrequency(tokens []string) Vector {
	tf := make(Vector)
	if len(tokens) == 0 {
		return tf
	}
	for _, token := range tokens {
		tf[token]++
	}
	total := float64(len(tokens))
	for token, count := range tf {
		tf[token] = count / total
	}
	return tf
}

// InverseDocumentFrequency computes idf = 1 + ln(N / (df + 1)) over the
// terms of tfs, where N is len(tfs) and df counts presence per document.
func InverseDocumentFrequency(tfs []Vector) IDF {
	df := make(map[string]int)
	for _, tf := range tfs {
		for term := range tf {
			df[term]++
		}
	}

	table := make(IDF, len(df))
	for term, count := range df {
		table[term] = idf(len(tfs), count)
	}
	return table
}

// Weight multiplies each term frequency by its idf
func Weight(tf Vector, table IDF) Vector {
	vector := make(Vector, len(tf))
	for term, freq := range tf {
		vector[term] = freq * table[term]
	}
	return vector
}

func idf(numDocs, docFreq int) float64 {
	return 1 + math.Log(float64(numDocs)/float64(docFreq+1))
}
