package enums

type Platform string

const (
	PlatformInvalid Platform = ""

	// PlatformWgGesucht is the wg-gesucht.de room-share and flat listing site.
	PlatformWgGesucht Platform = "wg_gesucht"

	// PlatformImmoScout is the immobilienscout24.de apartment listing site.
	PlatformImmoScout Platform = "immoscout"

	// PlatformKleinanzeigen is the kleinanzeigen.de classifieds site.
	PlatformKleinanzeigen Platform = "kleinanzeigen"
)

func (p Platform) Valid() bool {
	switch p {
	case PlatformWgGesucht, PlatformImmoScout, PlatformKleinanzeigen:
		return true
	}
	return false
}
