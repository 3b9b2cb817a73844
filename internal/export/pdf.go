//go:build !nopdf

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"tabmaker/internal/render"
	"tabmaker/internal/song"
)

const (
	bodyFont   = "Courier"
	headerSize = 16.0
)

// WriteSongPDF writes s to w in the two-line layout.
func WriteSongPDF(w io.Writer, s song.Song, opt PDFOptions) error {
	pdf, err := buildPDF(s, opt)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func buildPDF(s song.Song, opt PDFOptions) (*gofpdf.Fpdf, error) {
	opt, err := opt.withDefaults()
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "pt", opt.PageSize, "")
	pdf.SetMargins(opt.Margin, opt.Margin, opt.Margin)
	pdf.SetAutoPageBreak(true, opt.Margin)
	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if v := s.Metadata["title"]; v != "" {
		pdf.SetTitle(v, true)
	}
	if v := s.Metadata["artist"]; v != "" {
		pdf.SetAuthor(v, true)
	}
	pdf.SetCreator("tabmaker", true)

	if hdr := headerText(s.Metadata); hdr != "" {
		pdf.SetHeaderFunc(func() {
			pdf.SetFont(bodyFont, "B", headerSize)
			pdf.CellFormat(0, headerSize*1.4, tr(hdr), "", 1, "C", false, 0, "")
			pdf.Ln(headerSize / 2)
		})
	}

	pdf.AddPage()
	lh := opt.FontSize * 1.25
	for _, sg := range render.Segments(s) {
		switch sg.Kind {
		case render.KindBlank:
			pdf.Ln(lh)
			continue
		case render.KindChord:
			pdf.SetFont(bodyFont, "B", opt.FontSize)
			pdf.SetTextColor(int(opt.ChordColor.R), int(opt.ChordColor.G), int(opt.ChordColor.B))
		case render.KindSection:
			pdf.SetFont(bodyFont, "BI", opt.FontSize)
			pdf.SetTextColor(0, 0, 0)
		default:
			pdf.SetFont(bodyFont, "", opt.FontSize)
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.CellFormat(0, lh, tr(sg.Text), "", 1, "L", false, 0, "")
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return pdf, nil
}
