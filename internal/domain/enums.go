package domain

type ItemKind string

const (
	ItemText  ItemKind = "text"
	ItemImage ItemKind = "image"
)

// Valid reports whether k is one of the accepted item kinds.
func (k ItemKind) Valid() bool {
	return k == ItemText || k == ItemImage
}

type Provenance string

const (
	ProvenanceManual Provenance = "manual"
	ProvenanceWeb    Provenance = "web"
)

func (p Provenance) Valid() bool {
	return p == ProvenanceManual || p == ProvenanceWeb
}

type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockParagraph BlockKind = "paragraph"
)

func (k BlockKind) Valid() bool {
	return k == BlockHeading || k == BlockParagraph
}

// Heading levels accepted on outline blocks.
const (
	MinHeadingLevel     = 1
	MaxHeadingLevel     = 6
	DefaultHeadingLevel = 2
)

// ValidItemKinds is the canonical set of accepted item kind strings.
var ValidItemKinds = map[string]bool{
	string(ItemText): true, string(ItemImage): true,
}

// ValidBlockKinds is the canonical set of accepted outline block kind strings.
var ValidBlockKinds = map[string]bool{
	string(BlockHeading): true, string(BlockParagraph): true,
}
