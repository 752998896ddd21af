package types

// RawVariable is the reader-supplied description of a single variable.
// Attributes hold the values exactly as stored in the granule with no
// configuration augmentation, and Dimensions keep the raw dimension names
// in axis order.
type RawVariable struct {
	Path       string
	DataType   string
	Attributes map[string]any
	Dimensions []string
}

// GranuleDescription is everything a reader extracts from one granule
// before graph construction begins. Namespace is format specific and
// opaque to the core (the DMR XML namespace, empty for NetCDF-4).
type GranuleDescription struct {
	Format           GranuleFormat
	Namespace        string
	GlobalAttributes map[string]any
	Variables        []RawVariable
}

// CollectionIdentity names the collection a granule belongs to. Compiled
// rule policies are cached per identity.
type CollectionIdentity struct {
	ShortName string
	Mission   string
}

func (c CollectionIdentity) String() string {
	return c.Mission + ":" + c.ShortName
}
