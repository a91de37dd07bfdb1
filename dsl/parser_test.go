package dsl_test

import (
	"strings"
	"testing"

	"github.com/techttk77-droid/baixadoc-alvara/dsl"
)

const sampleDSL = `
notice Alvara v1 {
  meta {
    title: "Alvará"
    keywords: [
      "alvará"
      "pagamento"
    ]
  }

  // imagens obrigatórias
  resources {
    image seal { src: "STJ.png" }
  }

  page 595.5 842 {
    image seal x 25 top 75 scale 0.5
    image watermark x center middle -50 scale 0.4 opacity 0.04
    center top 160 size 9.5 { "TRIBUNAL DE JUSTIÇA" }
    rect x 55 dy -5 width 485 height 22 fill #e6e6e6
    text x 60 size 10 weight bold { "Credor: ${creditor}" }
    down 20; down 5
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Alvara" || doc.Version != "v1" {
		t.Fatalf("unexpected header: %s %s", doc.Name, doc.Version)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}
	kinds := []string{doc.Sections[0].Kind(), doc.Sections[1].Kind(), doc.Sections[2].Kind()}
	if strings.Join(kinds, ",") != "meta,resources,page" {
		t.Fatalf("unexpected section order: %v", kinds)
	}

	meta := doc.Sections[0].Meta
	title := meta.Block.Statements[0].Assignment
	if title == nil || title.Key != "title" || string(*title.Value.String) != "Alvará" {
		t.Fatalf("expected title assignment, got %+v", meta.Block.Statements[0])
	}
	keywords := meta.Block.Statements[1].Assignment
	if keywords == nil || keywords.Value.Array == nil || len(keywords.Value.Array.Values) != 2 {
		t.Fatalf("expected 2 keywords, got %+v", keywords)
	}

	res := doc.Sections[1].Resources.Block.Statements[0].Command
	if res == nil || res.Name != "image" || res.Args[0].Value != "seal" {
		t.Fatalf("unexpected resource: %+v", res)
	}
	src := res.Block.Statements[0].Assignment
	if src == nil || string(*src.Value.String) != "STJ.png" {
		t.Fatalf("unexpected resource body: %+v", res.Block.Statements)
	}

	page := doc.Sections[2].Page
	if len(page.Size) != 2 || page.Size[0].Value != "595.5" || page.Size[1].Value != "842" {
		t.Fatalf("unexpected page size: %+v", page.Size)
	}
	stmts := page.Block.Statements
	if len(stmts) != 7 {
		t.Fatalf("expected 7 page statements, got %d", len(stmts))
	}

	watermark := stmts[1].Command
	if got := argValues(watermark.Args); got != "watermark x center middle -50 scale 0.4 opacity 0.04" {
		t.Fatalf("unexpected watermark args: %s", got)
	}

	center := stmts[2].Command
	if center.Name != "center" || center.Block == nil || center.Block.Statements[0].Text == nil {
		t.Fatalf("center command missing literal: %+v", center)
	}
	if got := string(center.Block.Statements[0].Text.Value); got != "TRIBUNAL DE JUSTIÇA" {
		t.Fatalf("unexpected centered text %q", got)
	}

	rect := stmts[3].Command
	if rect.Args[len(rect.Args)-1].Type != "Color" || rect.Args[len(rect.Args)-1].Value != "#e6e6e6" {
		t.Fatalf("fill colour not lexed as one token: %+v", rect.Args)
	}

	text := stmts[4].Command
	if got := string(text.Block.Statements[0].Text.Value); !strings.Contains(got, "${creditor}") {
		t.Fatalf("expected interpolation in text literal, got %s", got)
	}

	if stmts[5].Command.Name != "down" || stmts[6].Command.Name != "down" || stmts[6].Command.Args[0].Value != "5" {
		t.Fatalf("semicolon-separated commands not split: %+v %+v", stmts[5].Command, stmts[6].Command)
	}
}

func TestParseRejectsWrongHeader(t *testing.T) {
	if _, err := dsl.ParseString(`doc X v1 { }`); err == nil {
		t.Fatalf("expected error for a non-notice document")
	}
}

func argValues(args []*dsl.Lexeme) string {
	values := make([]string, 0, len(args))
	for _, a := range args {
		values = append(values, a.Value)
	}
	return strings.Join(values, " ")
}
