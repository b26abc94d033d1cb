// Package search keeps an Elasticsearch index of notes for free-text lookup.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/notemaster-api/internal/domain/entity"
)

const (
	requestTimeout = 3 * time.Second
	defaultSize    = 20
	maxSize        = 100
)

type NoteIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewNoteIndex(es *elasticsearch.Client, index string) *NoteIndex {
	return &NoteIndex{es: es, index: index}
}

const noteMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "verticalId":  {"type": "keyword"},
      "subtitleId":  {"type": "keyword"},
      "authorId":    {"type": "keyword"},
      "question":    {"type": "text"},
      "answer":      {"type": "text"},
      "companyName": {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "status":      {"type": "keyword"},
      "tags":        {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "createdAt":   {"type": "date"}
    }
  }
}`

// EnsureIndex creates the index with its mapping unless it already exists.
func (i *NoteIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := esapi.IndicesExistsRequest{Index: []string{i.index}}.Do(c, i.es)
	if err != nil {
		return fmt.Errorf("checking index %s: %w", i.index, err)
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("checking index %s: %s", i.index, res.Status())
	}

	res, err = esapi.IndicesCreateRequest{Index: i.index, Body: strings.NewReader(noteMapping)}.Do(c, i.es)
	if err != nil {
		return fmt.Errorf("creating index %s: %w", i.index, err)
	}
	defer func() { _ = res.Body.Close() }()
	// a concurrent replica may have won the race
	if res.IsError() && res.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("creating index %s: %s", i.index, res.Status())
	}
	return nil
}

type noteDoc struct {
	ID          string   `json:"id"`
	VerticalID  string   `json:"verticalId"`
	SubtitleID  string   `json:"subtitleId"`
	AuthorID    string   `json:"authorId"`
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	CompanyName string   `json:"companyName"`
	Status      string   `json:"status"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"createdAt"`
}

func (i *NoteIndex) Index(ctx context.Context, n *entity.Note) error {
	b, err := json.Marshal(noteDoc{
		ID:          n.ID,
		VerticalID:  n.VerticalID,
		SubtitleID:  n.SubtitleID,
		AuthorID:    n.AuthorID,
		Question:    n.Question,
		Answer:      n.Answer,
		CompanyName: n.CompanyName,
		Status:      string(n.Status),
		Tags:        n.Tags,
		CreatedAt:   n.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req := esapi.IndexRequest{Index: i.index, DocumentID: n.ID, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, i.es)
	if err != nil {
		return fmt.Errorf("indexing note %s: %w", n.ID, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("indexing note %s: %s", n.ID, res.Status())
	}
	return nil
}

// Delete removes the note document. A missing document is not an error.
func (i *NoteIndex) Delete(ctx context.Context, id string) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req := esapi.DeleteRequest{Index: i.index, DocumentID: id}
	res, err := req.Do(c, i.es)
	if err != nil {
		return fmt.Errorf("deleting note %s: %w", id, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("deleting note %s: %s", id, res.Status())
	}
	return nil
}

// Search returns the ids of the best matching notes, best first.
func (i *NoteIndex) Search(ctx context.Context, q string, size int) ([]string, error) {
	if size <= 0 {
		size = defaultSize
	}
	if size > maxSize {
		size = maxSize
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"question^2", "answer", "companyName", "tags"},
			},
		},
		"_source": false,
		"size":    size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := i.es.Search(
		i.es.Search.WithContext(c),
		i.es.Search.WithIndex(i.index),
		i.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, fmt.Errorf("searching notes: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("searching notes: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

// MatchNote is the in-process fallback: a case-insensitive substring test over
// question, answer, company name and tags. An empty query matches everything.
func MatchNote(n *entity.Note, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(n.Question), q) ||
		strings.Contains(strings.ToLower(n.Answer), q) ||
		strings.Contains(strings.ToLower(n.CompanyName), q) {
		return true
	}
	for _, t := range n.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}
