package entities

// Action is one entry of the list returned by the coordinator's
// moduleGetActions handler.
type Action struct {
	Function string `json:"function"`
	Text     string `json:"text"`
	Icon     string `json:"icon,omitempty"`
	Shortcut string `json:"shortcut,omitempty"`
	Menu     string `json:"menu,omitempty"`
}

// ConfigPage is one entry of the list returned by moduleGetConfigPages.
type ConfigPage struct {
	Function string `json:"function"`
	Name     string `json:"name"`
	FullName string `json:"full_name,omitempty"`
	Icon     string `json:"icon,omitempty"`
}
