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

// Table names shared with the repository layer.
const (
	TableOCRResult     = "ocr_result"
	TablePurchaseOrder = "purchase_order"
	TableOrderItem     = "order_item"
	TablePOInput       = "po_input"
)

type OCRResult struct{ ent.Schema }

func (OCRResult) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: TableOCRResult},
	}
}

func (OCRResult) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Immutable(),
		field.String("original_filename").NotEmpty(),
		field.String("status").
			Validate(utils.EnumValidator(constants.OCRStatuses...)),
		field.Text("text_content").Optional().
			SchemaType(map[string]string{dialect.Postgres: "text"}),
		// {data, stats, original_filename, text_content} once completed
		field.JSON("processed_data", map[string]any{}).Optional(),
		field.Text("error_message").Optional(),
		field.Time("created_at").Default(time.Now).Immutable(),
		field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
	}
}

func (OCRResult) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("purchase_orders", PurchaseOrder.Type),
	}
}

func (OCRResult) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("status", "created_at"),
	}
}
