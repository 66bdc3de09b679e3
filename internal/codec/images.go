package codec

// Image presence flags written in place of a payload.
const (
	ImagePresent = "Yes"
	ImageAbsent  = "No"
)

// DefaultImageCellLimit is the largest image reference written inline
// under ImageInline. It matches the per-cell character limit of the
// remote spreadsheet.
const DefaultImageCellLimit = 50000

// ImageMode selects how image reference fields are written.
type ImageMode int

const (
	// ImageFlag writes only "Yes" or "No".
	ImageFlag ImageMode = iota
	// ImageInline writes the reference itself when it fits the cell
	// limit, and "Yes" otherwise.
	ImageInline
)

// ImagePolicy bounds what an image column may carry.
type ImagePolicy struct {
	Mode      ImageMode
	CellLimit int
}

func (p ImagePolicy) encode(ref string) string {
	if ref == "" {
		return ImageAbsent
	}
	if p.Mode == ImageInline {
		limit := p.CellLimit
		if limit <= 0 {
			limit = DefaultImageCellLimit
		}
		if len(ref) <= limit {
			return ref
		}
	}
	return ImagePresent
}

// decodeImage maps a stored image cell back to a reference. A presence
// flag carries no payload, so it decodes as absent.
func decodeImage(cell string) string {
	switch cell {
	case "", ImagePresent, ImageAbsent:
		return ""
	default:
		return cell
	}
}
