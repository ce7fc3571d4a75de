// package catalog implements ingestion of tabular music catalog input:
// column role detection, title extraction and deduplication, and the
// selection set feeding the enrichment pipeline.
package catalog

import (
	"strings"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/models"
)

// Header synonyms per semantic role, matched case-insensitively.
// Catalog sheets come from Brazilian collections, so Portuguese labels lead.
var (
	titleSynonyms  = []string{"música", "musica", "nome da música", "nome da musica", "título", "titulo", "title", "song", "track", "faixa"}
	artistSynonyms = []string{"artista", "artist", "intérprete", "interprete", "cantor", "cantora", "banda"}
	lyricsSynonyms = []string{"letra", "letras", "lyrics"}
)

// DetectColumns identifies which header columns carry the title, artist, and
// lyrics roles. Each role resolves to zero or one match: a single best-scoring
// column wins, and ties between distinct columns leave the role undetected.
//
// Detection is pure and idempotent; running it twice on the same header yields
// identical results.
func DetectColumns(header []string) models.DetectedColumns {
	return models.DetectedColumns{
		Title:  matchColumn(header, titleSynonyms),
		Artist: matchColumn(header, artistSynonyms),
		Lyrics: matchColumn(header, lyricsSynonyms),
	}
}

// matchColumn scores every header cell against the role synonyms.
// Exact matches outrank substring matches; an ambiguous tie yields nil.
func matchColumn(header []string, synonyms []string) *models.ColumnMatch {
	const (
		scoreContains = 1
		scoreExact    = 2
	)

	best := -1
	bestScore := 0
	ambiguous := false

	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		if name == "" {
			continue
		}

		score := 0
		for _, syn := range synonyms {
			switch {
			case name == syn:
				score = scoreExact
			case score < scoreContains && strings.Contains(name, syn):
				score = scoreContains
			}
			if score == scoreExact {
				break
			}
		}

		switch {
		case score == 0:
			continue
		case score > bestScore:
			best, bestScore, ambiguous = i, score, false
		case score == bestScore:
			ambiguous = true
		}
	}

	if best < 0 || ambiguous {
		return nil
	}
	return &models.ColumnMatch{Name: strings.TrimSpace(header[best]), Index: best}
}
