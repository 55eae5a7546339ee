package enums

type PropertyType string

const (
	PropertyTypeInvalid PropertyType = ""

	// PropertyTypeApartment is a whole apartment rented as one unit.
	PropertyTypeApartment PropertyType = "apartment"

	// PropertyTypeWgRoom is a single room inside a shared flat.
	PropertyTypeWgRoom PropertyType = "wg_room"

	PropertyTypeStudio PropertyType = "studio"
	PropertyTypeHouse  PropertyType = "house"
)

func (p PropertyType) Valid() bool {
	switch p {
	case PropertyTypeApartment, PropertyTypeWgRoom, PropertyTypeStudio, PropertyTypeHouse:
		return true
	}
	return false
}
