package validate

var text = []Normalizer{Trim, Escape}

func requiredText(field string) Rule {
	return Rule{Field: field, Kind: String, Required: true, Normalize: text}
}

func optionalText(field string) Rule {
	return Rule{Field: field, Kind: String, Normalize: text}
}

func requiredEmail(field string) Rule {
	return Rule{Field: field, Kind: Email, Required: true, Normalize: []Normalizer{Trim}, Message: "Valid email is required"}
}

// ProjectCreate checks the text fields of a multipart project upload. The
// image itself is checked by the storage package.
var ProjectCreate = Schema{
	requiredText("title"),
	requiredText("category"),
	optionalText("description"),
	{Field: "client", Kind: Any, Normalize: []Normalizer{Trim}},
	{Field: "technologies", Kind: Array, Normalize: text},
}

// ProjectUpdate checks a JSON project update; img must already be a stored path.
var ProjectUpdate = Schema{
	requiredText("title"),
	requiredText("category"),
	{Field: "img", Kind: String, Required: true, Normalize: []Normalizer{Trim}},
	optionalText("description"),
	{Field: "client", Kind: Any},
	{Field: "technologies", Kind: Array, Normalize: text},
}

var FeedbackCreate = Schema{
	requiredText("name"),
	requiredText("role"),
	requiredText("company"),
	requiredEmail("email"),
	requiredText("subject"),
	requiredText("message"),
}

var HireRequestCreate = Schema{
	requiredText("name"),
	requiredEmail("email"),
	optionalText("company"),
	requiredText("projectType"),
	requiredText("projectDescription"),
	{Field: "budget", Kind: Number},
	optionalText("timeframe"),
}
