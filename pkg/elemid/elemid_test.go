package elemid_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"salto.dev/core/pkg/elemid"
)

func TestFullName(t *testing.T) {
	tests := []struct {
		name string
		id   elemid.ElemID
		want string
	}{
		{"type", elemid.New("salesforce", "Account"), "salesforce.Account"},
		{"field", elemid.NewField("salesforce", "Account", "Name"), "salesforce.Account.field.Name"},
		{"instance", elemid.NewInstance("salesforce", "Account", "acc1"), "salesforce.Account.instance.acc1"},
		{"nested", elemid.NewInstance("salesforce", "Account", "acc1").CreateNestedID("address", "city"), "salesforce.Account.instance.acc1.address.city"},
		{"var", elemid.NewVar("myVar"), "var.myVar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qt.Assert(t, qt.Equals(tt.id.FullName(), tt.want))
		})
	}
}

func TestEqual(t *testing.T) {
	a := elemid.NewField("adapter", "T", "f")
	b := elemid.NewField("adapter", "T", "f")
	c := elemid.NewField("adapter", "T", "g")
	qt.Assert(t, qt.IsTrue(a.Equal(b)))
	qt.Assert(t, qt.IsFalse(a.Equal(c)))
}

func TestParent(t *testing.T) {
	field := elemid.NewField("a", "T", "f")
	parent, ok := field.Parent()
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.DeepEquals(parent, elemid.New("a", "T")))

	typeID := elemid.New("a", "T")
	_, ok = typeID.Parent()
	qt.Assert(t, qt.IsFalse(ok))

	nested := elemid.NewInstance("a", "T", "i").CreateNestedID("x", "y")
	parent, ok = nested.Parent()
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.DeepEquals(parent, elemid.NewInstance("a", "T", "i").CreateNestedID("x")))
}

func TestIsConfig(t *testing.T) {
	cfg := elemid.NewInstance("salesforce", "salesforce", elemid.ConfigInstanceName)
	qt.Assert(t, qt.IsTrue(cfg.IsConfig()))
	qt.Assert(t, qt.IsFalse(elemid.NewInstance("salesforce", "Account", "acc1").IsConfig()))
}

func TestCompareDeterministic(t *testing.T) {
	a := elemid.New("a", "A")
	b := elemid.New("b", "A")
	qt.Assert(t, qt.Equals(a.Compare(b) < 0, true))
	qt.Assert(t, qt.Equals(b.Compare(a) > 0, true))
	qt.Assert(t, qt.Equals(a.Compare(a), 0))
}
