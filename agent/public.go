package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/etnz/pdash"
	"github.com/etnz/pdash/docs"
	"github.com/etnz/pdash/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here to understand his brokerage account and to preview trades before making them.
			Simulated trades are never executed, say so whenever the user could believe otherwise.

			Devise a plan of questions to ask to each experts and come up with the best response to the user's request.
			Answer in markdown.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns the expert grounded in Google Search.
func NewTrader() *Expert {
	e := NewExpert("Trader", `This is an expert trader,
		Very well aware of all the financial products and institutions,
		about the latest news about the different funds or companies.
		Ask the Trader whenever you need recent or grounding information.`)
	e.ModelName = model
	e.Config = &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a expert in Trading, you can search and find about anything related to
			financial institutions, companies, markets, funds etc. You Leverage Google Search to
			ground your assertions in a solid truth.
			You can get the latests news too, and you know how to relate them to the user's request.
		`}}},
	}
	return e
}

// NewSimulator returns the expert reading the dashboard and editing the
// simulation ledger of e.
func NewSimulator(e *pdash.Engine) *Expert {
	lib := Tools(e)
	instruction := `
			You are in charge of the user's portfolio dashboard and its simulated trades.
			Use the Dashboard tool before answering any question about the portfolio.
			A simulation is a hypothetical trade: positive quantities buy, negative quantities sell.
			Figures prefixed "projected" include the simulations, the others do not.
			After adding or removing a simulation, report how leverage, cash and percent invested changed.
		`
	if manual, err := docs.GetTopics("*"); err == nil {
		instruction += "\nThis is the user manual of the dashboard:\n\n" + manual
	}
	x := NewExpert("Simulator", `This is the Simulator. It reads the user's brokerage dashboard: positions,
		cash, leverage and net liquidity, and it can add or remove simulated trades to preview
		their effect on those figures.`)
	x.ModelName = model
	x.Config = &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{FunctionDeclarations: NewDeclaration(lib)},
		},
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
	}
	x.Library = NewLibrary(lib)
	return x
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

// Tools returns the functions operating on the dashboard of e.
func Tools(e *pdash.Engine) []Function {
	return []Function{dashboardTool(e), addSimulationTool(e), removeSimulationTool(e)}
}

func dashboardTool(e *pdash.Engine) *Func {
	const name = "Dashboard"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: `Dashboard renders the current account figures, the positions merged with the simulations and the simulation ledger.`,
			Parameters:  &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown document with the account, positions and simulations tables.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			d := renderer.NewDashboard("Portfolio", e.View())
			return success(id, name, renderer.RenderDashboard(d, renderer.DashboardRenderOptions{}))
		},
	}
}

func addSimulationTool(e *pdash.Engine) *Func {
	const name = "AddSimulation"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: `AddSimulation adds a hypothetical trade to the simulation ledger.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"symbol":   {Type: genai.TypeString, Description: "The ticker symbol, e.g. AAPL."},
					"quantity": {Type: genai.TypeNumber, Description: "Number of shares, negative to sell."},
					"price":    {Type: genai.TypeNumber, Description: "Price per share, positive."},
					"currency": {Type: genai.TypeString, Description: "ISO code of the price currency, USD by default. Use GBX for prices in pence."},
					"name":     {Type: genai.TypeString, Description: "Optional display name of the security."},
				},
				Required: []string{"symbol", "quantity", "price"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeObject,
				Description: "The id of the new simulation and the projected leverage, cash and percent invested.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			symbol, _ := args["symbol"].(string)
			quantity, ok := args["quantity"].(float64)
			if !ok {
				return failure(id, name, fmt.Errorf("invalid quantity %v", args["quantity"]))
			}
			price, ok := args["price"].(float64)
			if !ok {
				return failure(id, name, fmt.Errorf("invalid price %v", args["price"]))
			}
			currency, _ := args["currency"].(string)
			display, _ := args["name"].(string)

			sim, err := pdash.NewSimulation(symbol, quantity, price, currency, display)
			if err != nil {
				return failure(id, name, err)
			}
			if err := e.AddSimulation(sim); err != nil {
				return failure(id, name, err)
			}
			return success(id, name, projection(sim.ID, e.View().KPI))
		},
	}
}

func removeSimulationTool(e *pdash.Engine) *Func {
	const name = "RemoveSimulation"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: `RemoveSimulation removes a trade from the simulation ledger, by id. The ids are listed by the Dashboard.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id": {Type: genai.TypeString, Description: "The id of the simulation."},
				},
				Required: []string{"id"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeObject,
				Description: "The projected leverage, cash and percent invested without the simulation.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			simID, _ := args["id"].(string)
			if err := e.RemoveSimulation(simID); err != nil {
				if errors.Is(err, pdash.ErrUnknownSimulation) {
					return failure(id, name, fmt.Errorf("no simulation %q, use the Dashboard to list them", simID))
				}
				return failure(id, name, err)
			}
			return success(id, name, projection(simID, e.View().KPI))
		},
	}
}

// projection summarizes the effect of the simulations on the account.
func projection(id string, k pdash.KPI) map[string]any {
	return map[string]any{
		"id":                     id,
		"current_leverage":       k.Leverage.StringFixed(2),
		"projected_leverage":     k.ProjectedLeverage.StringFixed(2),
		"cash_usd":               k.CashUSD.String(),
		"projected_cash_usd":     k.ProjectedCashUSD.String(),
		"pct_invested":           k.PctInvested.String(),
		"projected_pct_invested": k.ProjectedPctInvested.String(),
		"borrowing":              k.Borrowing,
		"simulations":            k.SimulationsCount,
	}
}
