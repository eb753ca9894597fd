package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-tracker/constants"
	"github.com/joseph-ayodele/po-tracker/db/ent/schema/utils"
)

// POInput carries the fields an operator fills in after registration.
type POInput struct{ ent.Schema }

func (POInput) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: TablePOInput},
	}
}

func (POInput) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Immutable(),
		field.UUID("po_id", uuid.UUID{}).Unique(),
		field.String("shipment_arrangement").Default(constants.ShipmentArrangementEmpty),
		field.Time("po_acquisition_date").
			SchemaType(map[string]string{dialect.Postgres: "date"}),
		field.String("organization").Optional(),
		field.String("invoice_number").Optional(),
		field.String("payment_status").Default(constants.PaymentStatusUnpaid).
			Validate(utils.EnumValidator(constants.PaymentStatuses...)),
		field.String("booking_number").Optional(),
		field.Text("memo").Optional(),
	}
}

func (POInput) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("purchase_order", PurchaseOrder.Type).
			Ref("input").
			Field("po_id").
			Unique().
			Required(),
	}
}
