package descriptor

// File is the on-disk shape of a descriptor.
type File struct {
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Prompts     []PromptDef `yaml:"prompts" json:"prompts"`
	Filters     []FilterDef `yaml:"filters,omitempty" json:"filters,omitempty"`
}

// PromptDef declares one question.
type PromptDef struct {
	Key      string      `yaml:"key" json:"key"`
	Type     string      `yaml:"type" json:"type"`
	Message  string      `yaml:"message,omitempty" json:"message,omitempty"`
	When     string      `yaml:"when,omitempty" json:"when,omitempty"`
	Required bool        `yaml:"required,omitempty" json:"required,omitempty"`
	Default  interface{} `yaml:"default,omitempty" json:"default,omitempty"`
	Choices  []ChoiceDef `yaml:"choices,omitempty" json:"choices,omitempty"`
}

// ChoiceDef is one option of a list prompt. Value is a string or the
// boolean false.
type ChoiceDef struct {
	Name  string      `yaml:"name" json:"name"`
	Value interface{} `yaml:"value" json:"value"`
	Short string      `yaml:"short,omitempty" json:"short,omitempty"`
}

// FilterDef gates the files matching Pattern.
type FilterDef struct {
	Pattern string `yaml:"pattern" json:"pattern"`
	When    string `yaml:"when" json:"when"`
}
