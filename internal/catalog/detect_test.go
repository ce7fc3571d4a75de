package catalog

import "testing"

func TestDetectColumns(t *testing.T) {
	t.Run("portuguese headers", func(t *testing.T) {
		detected := DetectColumns([]string{"Música", "Artista", "Letra"})

		if detected.Title == nil || detected.Title.Index != 0 {
			t.Errorf("expected title at index 0, got %+v", detected.Title)
		}
		if detected.Artist == nil || detected.Artist.Index != 1 {
			t.Errorf("expected artist at index 1, got %+v", detected.Artist)
		}
		if detected.Lyrics == nil || detected.Lyrics.Index != 2 {
			t.Errorf("expected lyrics at index 2, got %+v", detected.Lyrics)
		}
	})

	t.Run("english headers", func(t *testing.T) {
		detected := DetectColumns([]string{"Song", "Artist", "Lyrics"})

		if detected.Title == nil || detected.Title.Index != 0 {
			t.Errorf("expected title at index 0, got %+v", detected.Title)
		}
		if detected.Artist == nil || detected.Artist.Index != 1 {
			t.Errorf("expected artist at index 1, got %+v", detected.Artist)
		}
		if detected.Lyrics == nil || detected.Lyrics.Index != 2 {
			t.Errorf("expected lyrics at index 2, got %+v", detected.Lyrics)
		}
	})

	t.Run("case insensitive with padding", func(t *testing.T) {
		detected := DetectColumns([]string{"  TÍTULO  ", " artista "})

		if detected.Title == nil {
			t.Fatal("expected title detection despite case and padding")
		}
		if detected.Title.Name != "TÍTULO" {
			t.Errorf("expected trimmed original header name, got %q", detected.Title.Name)
		}
	})

	t.Run("exact match outranks substring match", func(t *testing.T) {
		detected := DetectColumns([]string{"Nome da Música Original", "Música"})

		if detected.Title == nil || detected.Title.Index != 1 {
			t.Errorf("expected exact match at index 1 to win, got %+v", detected.Title)
		}
	})

	t.Run("ambiguous tie yields no detection", func(t *testing.T) {
		detected := DetectColumns([]string{"Música", "Título"})

		if detected.Title != nil {
			t.Errorf("expected no title detection on tie, got %+v", detected.Title)
		}
	})

	t.Run("unknown headers", func(t *testing.T) {
		detected := DetectColumns([]string{"Data", "Observações"})

		if detected.Title != nil || detected.Artist != nil || detected.Lyrics != nil {
			t.Errorf("expected nothing detected, got %+v", detected)
		}
	})

	t.Run("empty header", func(t *testing.T) {
		detected := DetectColumns(nil)

		if detected.Title != nil || detected.Artist != nil || detected.Lyrics != nil {
			t.Errorf("expected nothing detected on empty header, got %+v", detected)
		}
	})

	t.Run("detection is idempotent", func(t *testing.T) {
		header := []string{"Música", "Artista"}

		first := DetectColumns(header)
		second := DetectColumns(header)

		if first.Title.Index != second.Title.Index || first.Artist.Index != second.Artist.Index {
			t.Error("expected identical results for repeated detection")
		}
	})
}
