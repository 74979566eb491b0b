package capability

import "github.com/vibescript/vibescript/pkg/ids"

// operatorNames covers the eleven operator symbols the bridge supports.
var operatorNames = []string{"+", "-", "*", "/", "==", "<", ">", "<=", ">=", "&&", "||"}

// uiModifierNames and uiEventNames back the UI intrinsics bucket of the
// default catalog.
var uiModifierNames = []string{"padding", "font", "foregroundStyle", "frame", "background"}
var uiEventNames = []string{"onTap", "onAppear", "onChange"}
var uiComponentNames = []string{"Text", "Button", "VStack", "HStack", "Spacer", "Image", "TextField", "Toggle"}
var uiStateNames = []string{"State.init", "State.get", "State.set", "State.bind"}

// DefaultEntries builds the static catalog entry list: the minimum set of
// bridge symbols every embedding host needs available.
func DefaultEntries() []CatalogEntry {
	var entries []CatalogEntry

	add := func(name string, required Capability) {
		entries = append(entries, CatalogEntry{
			Symbol:   ids.NewBridgeSymbolID(name),
			Name:     name,
			Required: required,
		})
	}

	add("print", CapFoundationBasic)
	add("String.uppercased", CapFoundationBasic)
	add("String.lowercased", CapFoundationBasic)
	add("String.contains", CapFoundationBasic)
	add("Int.init", CapFoundationBasic)
	add("Double.init", CapFoundationBasic)
	add("Bool.init", CapFoundationBasic)
	add("Date.now", CapDateFormatting)

	for _, op := range operatorNames {
		entries = append(entries, CatalogEntry{
			Symbol:   ids.NewOperatorSymbolID(op),
			Name:     op,
			Required: CapFoundationBasic,
		})
	}

	for _, name := range uiComponentNames {
		add(name, CapUIBasic)
	}
	for _, name := range uiModifierNames {
		add(name, CapUIBasic)
	}
	for _, name := range uiEventNames {
		add(name, CapUIBasic)
	}
	for _, name := range uiStateNames {
		add(name, CapUIBasic)
	}

	return entries
}

// DefaultCatalog is the process-wide static catalog built from
// DefaultEntries. It is read-only after construction and safe to share
// across VM runs.
var DefaultCatalog = NewCatalog(DefaultEntries())

// DefaultPolicy gates bridge calls against DefaultCatalog.
var DefaultPolicy = NewPolicy(DefaultCatalog)
