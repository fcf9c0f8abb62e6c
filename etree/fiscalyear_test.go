package etree_test

import (
	"testing"

	"github.com/fwojciec/tenk"
	"github.com/fwojciec/tenk/etree"
	"github.com/stretchr/testify/assert"
)

func TestFiscalYearReader_ReadFiscalYear(t *testing.T) {
	t.Parallel()

	t.Run("reads fiscal year focus", func(t *testing.T) {
		t.Parallel()

		html := `<html xmlns="http://www.w3.org/1999/xhtml" xmlns:ix="http://www.xbrl.org/2013/inlineXBRL">
<body>
<div style="display:none"><ix:header>
<ix:nonNumeric name="dei:DocumentFiscalYearFocus" contextRef="c-1">2021</ix:nonNumeric>
</ix:header></div>
<p>Annual report</p>
</body></html>`

		year, ok := etree.NewFiscalYearReader().ReadFiscalYear(html)

		assert.True(t, ok)
		assert.Equal(t, tenk.Year(2021), year)
	})

	t.Run("falls back to period end date", func(t *testing.T) {
		t.Parallel()

		html := `<html xmlns:ix="http://www.xbrl.org/2013/inlineXBRL"><body>
<p>For the fiscal year ended <ix:nonNumeric name="dei:DocumentPeriodEndDate" contextRef="c-1">December 31, 2019</ix:nonNumeric></p>
</body></html>`

		year, ok := etree.NewFiscalYearReader().ReadFiscalYear(html)

		assert.True(t, ok)
		assert.Equal(t, tenk.Year(2019), year)
	})

	t.Run("tolerates HTML entities", func(t *testing.T) {
		t.Parallel()

		html := `<html xmlns:ix="http://www.xbrl.org/2013/inlineXBRL"><body>
<p>Uber&nbsp;Technologies</p>
<ix:nonNumeric name="dei:DocumentFiscalYearFocus">2022</ix:nonNumeric>
</body></html>`

		year, ok := etree.NewFiscalYearReader().ReadFiscalYear(html)

		assert.True(t, ok)
		assert.Equal(t, tenk.Year(2022), year)
	})

	t.Run("returns false without facts", func(t *testing.T) {
		t.Parallel()

		_, ok := etree.NewFiscalYearReader().ReadFiscalYear(`<html><body><p>No XBRL here</p></body></html>`)

		assert.False(t, ok)
	})
}
