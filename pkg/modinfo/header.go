package modinfo

const (
	nameMarker        = "# Name:"
	descriptionMarker = "# Description:"
)

// ExtractHeader reads metadata from comment header lines. Lines are matched
// as-is, so indented markers are ignored. Every field is nil when absent.
func ExtractHeader(source string) ModuleInfo {
	var info ModuleInfo
	for _, line := range normalize(source) {
		if v, ok := markerValue(line, nameMarker); ok {
			setOnce(&info.Name, v)
		}
		if v, ok := markerValue(line, descriptionMarker); ok {
			setOnce(&info.Description, v)
		}
		scanMeta(line, &info)
	}
	return info
}
