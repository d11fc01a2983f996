package registry

type Routes struct {
	List   string `json:"list"`
	Show   string `json:"show,omitempty"`
	Create string `json:"create,omitempty"`
	Edit   string `json:"edit,omitempty"`
}

type Resource struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Routes Routes `json:"routes"`
}

type Dialog struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Resource    string `json:"resource"`
	Description string `json:"description"`
}

type Action struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type CapabilityRegistry struct {
	Version     string     `json:"version"`
	RoutePrefix string     `json:"routePrefix"`
	Resources   []Resource `json:"resources"`
	Dialogs     []Dialog   `json:"dialogs"`
	Actions     []Action   `json:"actions"`
}

const CapabilityVersion = "2025-01"

func DefaultCapability(routePrefix string) CapabilityRegistry {
	if routePrefix == "" {
		routePrefix = "#/"
	}
	resources := []Resource{
		crud(routePrefix, "clients", "Clienti"),
		crud(routePrefix, "contacts", "Referenti"),
		crud(routePrefix, "projects", "Progetti"),
		crud(routePrefix, "quotes", "Preventivi"),
		crud(routePrefix, "services", "Servizi"),
		crud(routePrefix, "payments", "Pagamenti"),
		crud(routePrefix, "expenses", "Spese"),
	}
	return CapabilityRegistry{
		Version:     CapabilityVersion,
		RoutePrefix: routePrefix,
		Resources:   resources,
		Dialogs: []Dialog{
			{ID: "quote_create", Label: "Nuovo preventivo", Resource: "quotes", Description: "Crea un preventivo per un cliente."},
			{ID: "quote_status_email", Label: "Invia email stato preventivo", Resource: "quotes", Description: "Anteprima e invio dell'email legata allo stato del preventivo."},
			{ID: "payment_create", Label: "Registra pagamento", Resource: "payments", Description: "Registra un incasso collegato a cliente, progetto o preventivo."},
			{ID: "expense_create", Label: "Registra spesa", Resource: "expenses", Description: "Registra una spesa o un credito ricevuto."},
			{ID: "invoice_import", Label: "Importa fatture", Resource: "payments", Description: "Estrae pagamenti e spese da documenti caricati e li conferma in blocco."},
			{ID: "project_contacts", Label: "Referenti progetto", Resource: "projects", Description: "Collega referenti del cliente al progetto."},
		},
		Actions: []Action{
			{ID: "read_snapshot", Label: "Leggi snapshot CRM", Description: "Restituisce il riepilogo in sola lettura."},
			{ID: "navigate", Label: "Apri pagina", Description: "Suggerisce una rotta dell'applicazione senza eseguire modifiche."},
		},
	}
}

// Route returns the list route of the named resource.
func (r CapabilityRegistry) Route(resource string) (string, bool) {
	for _, res := range r.Resources {
		if res.Name == resource {
			return res.Routes.List, true
		}
	}
	return "", false
}

func crud(prefix, name, label string) Resource {
	base := prefix + name
	return Resource{
		Name:  name,
		Label: label,
		Routes: Routes{
			List:   base,
			Show:   base + "/:id/show",
			Create: base + "/create",
			Edit:   base + "/:id",
		},
	}
}
