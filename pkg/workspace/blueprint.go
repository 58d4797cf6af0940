package workspace

import "salto.dev/core/pkg/element"

// singleConfigInstanceAdapter reports the adapter name when bp parses to
// exactly one element, and that element is an adapter's singleton config
// instance (elemid.ElemID.IsConfig), per §4.4.2 flush's credentials
// placement rule.
func singleConfigInstanceAdapter(bp *ParsedBlueprint) (string, bool) {
	if len(bp.Elements) != 1 {
		return "", false
	}
	inst, ok := bp.Elements[0].(*element.InstanceElement)
	if !ok || !inst.ID.IsConfig() {
		return "", false
	}
	return inst.ID.Adapter, true
}
