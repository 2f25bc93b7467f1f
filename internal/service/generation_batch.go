package service

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Mahaswami/exam-prep-sub000/internal/model"
	"github.com/Mahaswami/exam-prep-sub000/internal/repository"
	"gopkg.in/yaml.v3"
)

// GenerationBatch lists the source questions of a manual generation run.
//
//	question_ids: [12, 15]
//	concepts:
//	  - concept_id: 3
//	    difficulty: Hard
//	    limit: 5
type GenerationBatch struct {
	QuestionIDs []uint            `yaml:"question_ids"`
	Concepts    []ConceptSelector `yaml:"concepts"`
}

// ConceptSelector picks up to Limit active questions of a concept, optionally
// of one difficulty. A zero Limit takes them all.
type ConceptSelector struct {
	ConceptID  uint   `yaml:"concept_id"`
	Difficulty string `yaml:"difficulty"`
	Limit      int    `yaml:"limit"`
}

func LoadGenerationBatch(path string) (*GenerationBatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch GenerationBatch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, c := range batch.Concepts {
		if c.ConceptID == 0 {
			return nil, fmt.Errorf("concepts[%d]: concept_id is required", i)
		}
		if c.Limit < 0 {
			return nil, fmt.Errorf("concepts[%d]: limit must not be negative", i)
		}
	}
	return &batch, nil
}

// Resolve expands the batch into distinct question ids, explicit ids first,
// capped at maxSize when it is positive.
func (b *GenerationBatch) Resolve(ctx context.Context, questions QuestionSource, maxSize int) ([]uint, error) {
	seen := map[uint]bool{}
	var ids []uint
	add := func(id uint) bool {
		if maxSize > 0 && len(ids) >= maxSize {
			return false
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
		return true
	}

	for _, id := range b.QuestionIDs {
		if !add(id) {
			return ids, nil
		}
	}

	for _, c := range b.Concepts {
		found, err := questions.FindQuestions(ctx, repository.QuestionFilter{
			ConceptIDs: []uint{c.ConceptID},
			Status:     model.QuestionActive,
		})
		if err != nil {
			return nil, err
		}
		taken := 0
		for _, q := range found {
			if c.Limit > 0 && taken >= c.Limit {
				break
			}
			if c.Difficulty != "" && !strings.EqualFold(q.Difficulty, c.Difficulty) {
				continue
			}
			if seen[q.ID] {
				continue
			}
			if !add(q.ID) {
				return ids, nil
			}
			taken++
		}
	}
	return ids, nil
}
