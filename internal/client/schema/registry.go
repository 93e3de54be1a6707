package schema

var fields = map[Entity][]Field{
	Library: {
		{Wire: "name", Label: "Name", Kind: KindText, Required: true},
		{Wire: "address", Label: "Address", Kind: KindText, Required: true},
		{Wire: "phone", Label: "Phone", Kind: KindText},
	},
	Topic: {
		{Wire: "name", Label: "Name", Kind: KindText, Required: true},
		{Wire: "description", Label: "Description", Kind: KindLongText},
	},
	Author: {
		{Wire: "full_name", Label: "Full name", Kind: KindText, Required: true},
		{Wire: "birth_year", Label: "Birth year", Kind: KindNumber, Min: ptr(1500), MaxCurrentYear: true, Step: 1},
		{Wire: "country", Label: "Country", Kind: KindText},
	},
	Book: {
		{Wire: "title", Editor: "book_title", Label: "Title", Kind: KindText, Required: true},
		{Wire: "publisher", Label: "Publisher", Kind: KindText},
		{Wire: "publish_place", Label: "Place of publication", Kind: KindText},
		{Wire: "publish_year", Label: "Publication year", Kind: KindNumber, Min: ptr(1500), MaxCurrentYear: true, Step: 1},
		{Wire: "quantity", Label: "Quantity", Kind: KindNumber, Min: ptr(0), Step: 1},
		{Wire: "price", Label: "Price", Kind: KindNumber, Min: ptr(0), Step: 0.01},
		{Wire: "library_id", Label: "Library", Kind: KindRelation, Required: true, Related: Library},
		{Wire: "topic_id", Label: "Topic", Kind: KindRelation, Required: true, Related: Topic},
		{Wire: "author_id", Label: "Author", Kind: KindRelation, Required: true, Related: Author},
	},
	Reader: {
		{Wire: "full_name", Label: "Full name", Kind: KindText, Required: true},
		{Wire: "address", Label: "Address", Kind: KindText},
		{Wire: "phone", Label: "Phone", Kind: KindText},
	},
	Subscription: {
		{Wire: "library_id", Label: "Library", Kind: KindRelation, Required: true, Related: Library},
		{Wire: "book_id", Label: "Book", Kind: KindRelation, Required: true, Related: Book},
		{Wire: "reader_id", Label: "Reader", Kind: KindRelation, Required: true, Related: Reader},
		{Wire: "issue_date", Label: "Issue date", Kind: KindDate},
		{Wire: "return_date", Label: "Return date", Kind: KindDate},
		{Wire: "deposit", Label: "Deposit", Kind: KindNumber, Min: ptr(0), Step: 0.01},
	},
}

// extra list columns that are not editable but can be sorted on.
var sortExtras = map[Entity][]string{
	Library: {"created_at"},
	Reader:  {"reg_date"},
}

// FieldsFor returns the ordered field list of e. The slice is a copy.
func FieldsFor(e Entity) []Field {
	src := fields[e]
	out := make([]Field, len(src))
	copy(out, src)
	return out
}

// RelationFieldsFor returns only the relation fields of e, in order.
func RelationFieldsFor(e Entity) []Field {
	var out []Field
	for _, f := range fields[e] {
		if f.IsRelation() {
			out = append(out, f)
		}
	}
	return out
}

// FieldByEditor finds a field by its form control name.
func FieldByEditor(e Entity, name string) (Field, bool) {
	for _, f := range fields[e] {
		if f.EditorName() == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldByWire finds a field by its payload name.
func FieldByWire(e Entity, name string) (Field, bool) {
	for _, f := range fields[e] {
		if f.Wire == name {
			return f, true
		}
	}
	return Field{}, false
}

// SortableFields lists the wire names the list view may sort or filter on:
// the identifier first, then every scalar field, then server-managed
// timestamps.
func SortableFields(e Entity) []string {
	id, _ := Identity(e)
	out := []string{id}
	for _, f := range fields[e] {
		if f.Kind == KindLongText {
			continue
		}
		out = append(out, f.Wire)
	}
	return append(out, sortExtras[e]...)
}
