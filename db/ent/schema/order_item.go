package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"
)

type OrderItem struct{ ent.Schema }

func (OrderItem) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: TableOrderItem},
	}
}

func (OrderItem) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Immutable(),
		field.UUID("po_id", uuid.UUID{}),
		// position within the PO, as extracted
		field.Int("line_no").NonNegative(),
		field.String("product_name").NotEmpty(),
		field.Float("quantity").
			SchemaType(map[string]string{dialect.Postgres: "numeric(14,3)"}),
		field.Float("unit_price").
			SchemaType(map[string]string{dialect.Postgres: "numeric(14,2)"}),
		field.Float("subtotal").
			SchemaType(map[string]string{dialect.Postgres: "numeric(14,2)"}),
	}
}

func (OrderItem) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("po_id", "line_no").Unique(),
	}
}

func (OrderItem) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("purchase_order", PurchaseOrder.Type).
			Ref("items").
			Field("po_id").
			Unique().
			Required(),
	}
}
