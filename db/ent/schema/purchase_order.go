package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-tracker/constants"
	"github.com/joseph-ayodele/po-tracker/db/ent/schema/utils"
)

type PurchaseOrder struct{ ent.Schema }

func (PurchaseOrder) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: TablePurchaseOrder},
	}
}

func (PurchaseOrder) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Immutable(),
		field.String("customer_name").NotEmpty(),
		field.String("po_number").NotEmpty(),
		field.String("currency").Default(constants.DefaultCurrency).MaxLen(3).
			SchemaType(map[string]string{dialect.Postgres: "char(3)"}),
		field.Float("total_amount").
			SchemaType(map[string]string{dialect.Postgres: "numeric(14,2)"}),
		field.String("payment_terms").Optional(),
		field.String("shipping_terms").Optional(),
		field.String("destination").Optional(),
		field.String("status").Default(constants.POStatusPending).
			Validate(utils.EnumValidator(constants.POStatuses...)),
		field.UUID("source_ocr_id", uuid.UUID{}).Optional().Nillable(),
		field.Time("created_at").Default(time.Now).Immutable(),
	}
}

func (PurchaseOrder) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("source", OCRResult.Type).
			Ref("purchase_orders").
			Field("source_ocr_id").
			Unique(),
		edge.To("items", OrderItem.Type),
		edge.To("input", POInput.Type).Unique(),
	}
}

func (PurchaseOrder) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("customer_name", "created_at"),
		index.Fields("po_number"),
	}
}
