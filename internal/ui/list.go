package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/models"
)

var (
	_ list.Item = titleItem{}
	_ list.Item = reviewItem{}
)

// titleItem wraps [models.ExtractedTitle] to implement [list.Item].
type titleItem struct {
	title    models.ExtractedTitle
	selected bool
}

func (i titleItem) FilterValue() string {
	return fmt.Sprintf("%s %s", i.title.Title, i.title.Artist)
}

func (i titleItem) Title() string {
	mark := "[ ]"
	if i.selected {
		mark = "[x]"
	}
	return fmt.Sprintf("%s %s", mark, i.title.Title)
}

func (i titleItem) Description() string {
	desc := fmt.Sprintf("%s · %s", i.title.Source.Filename, i.title.Source.SheetName)
	if i.title.Artist != "" {
		desc = fmt.Sprintf("%s • %s", i.title.Artist, desc)
	}
	return desc
}

// reviewItem wraps an enriched [models.MusicItem] to implement [list.Item].
type reviewItem struct {
	item models.MusicItem
}

func (i reviewItem) FilterValue() string { return i.item.Title }

func (i reviewItem) Title() string {
	switch i.item.Status {
	case models.StatusValidated:
		return fmt.Sprintf("✓ %s", i.item.Title)
	case models.StatusRejected:
		return fmt.Sprintf("✗ %s", i.item.Title)
	default:
		return i.item.Title
	}
}

func (i reviewItem) Description() string {
	desc := string(i.item.Status)
	if i.item.Enriched != nil && i.item.Enriched.Composer != "" {
		desc = fmt.Sprintf("%s • %s", i.item.Enriched.Composer, desc)
	}
	if i.item.Confidence > 0 {
		desc = fmt.Sprintf("%s • %d%%", desc, i.item.Confidence)
	}
	return desc
}
