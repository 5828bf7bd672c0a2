// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ApprovedDateLayout is the date format SSRN uses in listing entries
// (e.g. "22 Jul 2025").
const ApprovedDateLayout = "02 Jan 2006"

// StoreDateLayout is the calendar-date form used for daily store file
// names and CLI arguments.
const StoreDateLayout = "2006-01-02"

// Paper is one record of a daily store: a paper approved on the store's
// date, as collected from the SSRN listing plus its detail endpoint.
type Paper struct {
	// ID is the SSRN abstract identifier, stable across days.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title as it appears in the listing.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// URL is the paper's public SSRN page.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// ApprovedDate is the listing's approval date, kept verbatim in the
	// source form "02 Jan 2006".
	ApprovedDate string `json:"approved_date" yaml:"approved_date"`

	// Category lists the category codes the paper was collected under.
	// Before merge it holds one code per collection pass and may repeat
	// across records sharing an ID; after merge it holds distinct codes.
	Category []string `json:"category" yaml:"category"`

	// Detail is the record fetched from the per-paper detail endpoint.
	Detail *PaperDetail `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Approved parses the record's approval date as a calendar date.
func (p Paper) Approved() (time.Time, error) {
	return time.Parse(ApprovedDateLayout, p.ApprovedDate)
}

// PaperDetail holds the fields returned by the SSRN detail endpoint.
type PaperDetail struct {
	Title       string         `json:"title,omitempty" yaml:"title,omitempty" xml:"title"`
	Abstract    string         `json:"abstract,omitempty" yaml:"abstract,omitempty" xml:"abstract"`
	Keywords    string         `json:"keywords,omitempty" yaml:"keywords,omitempty" xml:"keywords"`
	Authors     []DetailAuthor `json:"authors,omitempty" yaml:"authors,omitempty" xml:"authors>author"`
	PageCount   int            `json:"page_count,omitempty" yaml:"page_count,omitempty" xml:"page_count"`
	PublishedIn string         `json:"published_in,omitempty" yaml:"published_in,omitempty" xml:"published_in"`
}

// DetailAuthor identifies one author from the detail endpoint.
type DetailAuthor struct {
	FirstName   string `json:"first_name,omitempty" yaml:"first_name,omitempty" xml:"first_name"`
	LastName    string `json:"last_name,omitempty" yaml:"last_name,omitempty" xml:"last_name"`
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty" xml:"affiliation"`
}

// PaperSummary is the fixed extraction contract for the LLM summarization
// stage: eight required research-content fields per paper.
type PaperSummary struct {
	// TLDR is a too-long-didn't-read summary of the paper.
	TLDR string `json:"tldr" yaml:"tldr"`

	// ResearchQuestion states the question the paper investigates.
	ResearchQuestion string `json:"research_question" yaml:"research_question"`

	// Motivation explains why the question matters.
	Motivation string `json:"motivation" yaml:"motivation"`

	// TheoreticalFramework names the key theories the paper builds on.
	TheoreticalFramework string `json:"theoretical_framework" yaml:"theoretical_framework"`

	// Method describes the paper's method.
	Method string `json:"method" yaml:"method"`

	// Findings reports the paper's results.
	Findings string `json:"findings" yaml:"findings"`

	// TheoryContributions states the theoretical contributions.
	TheoryContributions string `json:"theory_contributions" yaml:"theory_contributions"`

	// PracticalContributions states the practical contributions.
	PracticalContributions string `json:"practical_contributions" yaml:"practical_contributions"`
}
