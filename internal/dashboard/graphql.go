package dashboard

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"

	"amartaka-bot/internal/model"
)

// IDs and amounts are exposed as strings: Telegram IDs overflow GraphQL's
// 32-bit Int and amounts are exact decimals.

var threadMessageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ThreadMessage",
	Fields: graphql.Fields{
		"from": &graphql.Field{Type: graphql.String},
		"text": &graphql.Field{Type: graphql.String},
	},
})

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"userId":     &graphql.Field{Type: graphql.String},
		"username":   &graphql.Field{Type: graphql.String},
		"balance":    &graphql.Field{Type: graphql.String},
		"banned":     &graphql.Field{Type: graphql.Boolean},
		"referrals":  &graphql.Field{Type: graphql.Int},
		"referredBy": &graphql.Field{Type: graphql.String},
		"deposits":   &graphql.Field{Type: graphql.NewList(graphql.String)},
		"withdraws":  &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

var ticketType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Ticket",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.String},
		"userId":    &graphql.Field{Type: graphql.String},
		"category":  &graphql.Field{Type: graphql.String},
		"status":    &graphql.Field{Type: graphql.String},
		"createdAt": &graphql.Field{Type: graphql.String},
		"thread":    &graphql.Field{Type: graphql.NewList(threadMessageType)},
	},
})

var withdrawType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Withdraw",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.String},
		"userId":    &graphql.Field{Type: graphql.String},
		"amount":    &graphql.Field{Type: graphql.String},
		"number":    &graphql.Field{Type: graphql.String},
		"status":    &graphql.Field{Type: graphql.String},
		"createdAt": &graphql.Field{Type: graphql.String},
	},
})

var depositType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Deposit",
	Fields: graphql.Fields{
		"id":     &graphql.Field{Type: graphql.String},
		"userId": &graphql.Field{Type: graphql.String},
		"amount": &graphql.Field{Type: graphql.String},
		"method": &graphql.Field{Type: graphql.String},
		"trx":    &graphql.Field{Type: graphql.String},
		"status": &graphql.Field{Type: graphql.String},
	},
})

var statsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Stats",
	Fields: graphql.Fields{
		"users":     &graphql.Field{Type: graphql.Int},
		"tickets":   &graphql.Field{Type: graphql.Int},
		"withdraws": &graphql.Field{Type: graphql.Int},
		"deposits":  &graphql.Field{Type: graphql.Int},
	},
})

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func userObject(u *model.User) map[string]interface{} {
	referredBy := ""
	if u.ReferredBy != 0 {
		referredBy = id(u.ReferredBy)
	}
	return map[string]interface{}{
		"userId":     id(u.UserID),
		"username":   u.Username,
		"balance":    u.Balance.String(),
		"banned":     u.Banned,
		"referrals":  u.Referrals,
		"referredBy": referredBy,
		"deposits":   u.History.Deposits,
		"withdraws":  u.History.Withdraws,
	}
}

func ticketObject(t *model.Ticket) map[string]interface{} {
	thread := make([]map[string]interface{}, 0, len(t.Thread))
	for _, m := range t.Thread {
		thread = append(thread, map[string]interface{}{"from": m.From, "text": m.Text})
	}
	return map[string]interface{}{
		"id":        t.ID,
		"userId":    id(t.UserID),
		"category":  string(t.Category),
		"status":    string(t.Status),
		"createdAt": t.CreatedAt.Format(time.RFC3339),
		"thread":    thread,
	}
}

func withdrawObject(w *model.Withdraw) map[string]interface{} {
	return map[string]interface{}{
		"id":        w.ID,
		"userId":    id(w.UserID),
		"amount":    w.Amount.String(),
		"number":    w.Number,
		"status":    string(w.Status),
		"createdAt": w.CreatedAt.Format(time.RFC3339),
	}
}

func depositObject(d *model.Deposit) map[string]interface{} {
	return map[string]interface{}{
		"id":     d.ID,
		"userId": id(d.UserID),
		"amount": d.Amount.String(),
		"method": d.Method,
		"trx":    d.Trx,
		"status": string(d.Status),
	}
}

// newSchema builds the read-only query schema. Each top-level field reads
// its own snapshot of the document.
func newSchema(source Source) (graphql.Schema, error) {
	load := func(p graphql.ResolveParams) (*model.Document, error) {
		return source.Snapshot(p.Context)
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"stats": &graphql.Field{
				Type: statsType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					doc, err := load(p)
					if err != nil {
						return nil, err
					}
					s := doc.Stats()
					return map[string]interface{}{
						"users":     s.Users,
						"tickets":   s.Tickets,
						"withdraws": s.Withdraws,
						"deposits":  s.Deposits,
					}, nil
				},
			},
			"users": &graphql.Field{
				Type: graphql.NewList(userType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					doc, err := load(p)
					if err != nil {
						return nil, err
					}
					out := make([]map[string]interface{}, 0, len(doc.Users))
					for _, u := range doc.Users {
						out = append(out, userObject(u))
					}
					return out, nil
				},
			},
			"tickets": &graphql.Field{
				Type: graphql.NewList(ticketType),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					doc, err := load(p)
					if err != nil {
						return nil, err
					}
					tickets := doc.Tickets
					if c, ok := p.Args["category"].(string); ok && c != "" {
						category := model.Category(c)
						if !category.Valid() {
							return nil, fmt.Errorf("unknown category %q", c)
						}
						tickets = doc.TicketsByCategory(category)
					}
					out := make([]map[string]interface{}, 0, len(tickets))
					for _, t := range tickets {
						out = append(out, ticketObject(t))
					}
					return out, nil
				},
			},
			"withdraws": &graphql.Field{
				Type: graphql.NewList(withdrawType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					doc, err := load(p)
					if err != nil {
						return nil, err
					}
					out := make([]map[string]interface{}, 0, len(doc.Withdraws))
					for _, w := range doc.Withdraws {
						out = append(out, withdrawObject(w))
					}
					return out, nil
				},
			},
			"deposits": &graphql.Field{
				Type: graphql.NewList(depositType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					doc, err := load(p)
					if err != nil {
						return nil, err
					}
					out := make([]map[string]interface{}, 0, len(doc.Deposits))
					for _, d := range doc.Deposits {
						out = append(out, depositObject(d))
					}
					return out, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}

func newGraphQLHandler(source Source) (http.Handler, error) {
	schema, err := newSchema(source)
	if err != nil {
		return nil, fmt.Errorf("failed to build graphql schema: %w", err)
	}
	return handler.New(&handler.Config{
		Schema: &schema,
		Pretty: true,
	}), nil
}
