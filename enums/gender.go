package enums

type Gender string

const (
	GenderUnknown Gender = ""
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"

	// GenderAny means the listing or user accepts any gender.
	GenderAny Gender = "any"
)

// SmokingPolicy is the resolved smoking rule for a listing.
type SmokingPolicy string

const (
	SmokingUnknown    SmokingPolicy = ""
	SmokingAllowed    SmokingPolicy = "allowed"
	SmokingNotAllowed SmokingPolicy = "not_allowed"

	// SmokingBalconyOnly means smoking is allowed outside only. An explicit
	// balcony exception overrides a general non-smoking mention.
	SmokingBalconyOnly SmokingPolicy = "balcony_only"
)
