package sources

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wohnmatch/wohnmatch.api/enums"
	"github.com/wohnmatch/wohnmatch.api/models"
)

const wgGesuchtIndexFixture = `
<html><body>
<div class="offer_list_item" data-id="11223344">
  <div class="row">
    <div class="col-xs-11"><span>WG in Berlin Kreuzberg | m&ouml;bliert</span></div>
  </div>
  <h3 class="truncate_title"><a href="/wg-zimmer-in-Berlin-Kreuzberg.11223344.html">Helles Zimmer in 3er WG</a></h3>
  <div class="row middle">
    <div class="col-xs-3"><b>750 &euro;</b></div>
    <div class="col-xs-5 text-center">01.10.2026 - 31.12.2026</div>
    <div class="col-xs-3 text-right"><b>24 m&sup2;</b></div>
  </div>
  <img data-src="/media/up/sides/11223344.jpg">
</div>
<div class="offer_list_item" data-id="55667788">
  <div class="row">
    <div class="col-xs-11"><span>Wohnung in Berlin Neuk&ouml;lln</span></div>
  </div>
  <h3 class="truncate_title"><a href="https://www.wg-gesucht.de/wohnungen-in-Berlin-Neukoelln.55667788.html">2-Zimmer-Wohnung am Maybachufer</a></h3>
  <div class="row middle">
    <div class="col-xs-3"><b>1.100 &euro;</b></div>
    <div class="col-xs-5 text-center">15.11.2026</div>
    <div class="col-xs-3 text-right"><b>58 m&sup2;</b></div>
  </div>
</div>
<div class="offer_list_item">
  <h3><a href="/kaputt.html">Karte ohne ID</a></h3>
</div>
</body></html>`

func parseFixture(t *testing.T) []models.RawListing {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(wgGesuchtIndexFixture))
	require.NoError(t, err)
	return ParseWgGesuchtIndex(doc, wgGesuchtBaseURL, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
}

func TestParseWgGesuchtIndex_ExtractsCards(t *testing.T) {
	raws := parseFixture(t)
	require.Len(t, raws, 2, "the card without data-id is skipped")

	first := raws[0]
	assert.Equal(t, enums.PlatformWgGesucht, first.Platform)
	assert.Equal(t, "11223344", first.ExternalID)
	assert.Equal(t, "https://www.wg-gesucht.de/wg-zimmer-in-Berlin-Kreuzberg.11223344.html", first.URL)
	assert.Equal(t, "Helles Zimmer in 3er WG", first.Title)
	assert.Equal(t, "Gesamtmiete: 750 €", first.PriceText)
	assert.Equal(t, "24 m²", first.SizeText)
	assert.Equal(t, "Kreuzberg", first.District)
	assert.Equal(t, []string{"https://www.wg-gesucht.de/media/up/sides/11223344.jpg"}, first.Images)
}

func TestParseWgGesuchtIndex_AbsoluteLinksPassThrough(t *testing.T) {
	raws := parseFixture(t)

	second := raws[1]
	assert.Equal(t, "https://www.wg-gesucht.de/wohnungen-in-Berlin-Neukoelln.55667788.html", second.URL)
	assert.Equal(t, "Neukölln", second.District)
	assert.Equal(t, "Gesamtmiete: 1.100 €", second.PriceText)
}

func TestParseWgGesuchtIndex_AvailabilityBecomesDescription(t *testing.T) {
	raws := parseFixture(t)

	assert.Contains(t, raws[0].Description, "frei ab 01.10.2026 bis 31.12.2026")
	assert.Contains(t, raws[1].Description, "frei ab 15.11.2026")
}

func TestParseDistrictLine(t *testing.T) {
	assert.Equal(t, "Kreuzberg", parseDistrictLine("WG in Berlin Kreuzberg | möbliert"))
	assert.Equal(t, "Prenzlauer Berg", parseDistrictLine("Wohnung in Berlin Prenzlauer Berg"))
	assert.Equal(t, "", parseDistrictLine("Wohnung in Berlin"))
	assert.Equal(t, "", parseDistrictLine(""))
}
