// Package prompt assembles the final prompt handed to the downstream
// text-to-SQL model.
package prompt

// Build embeds the question and the retrieved schema context into the
// completion template. The answer slot is intentionally left open for the
// model to fill.
func Build(question, context string) string {
	return "### Question: " + question + "\n" +
		"### Context: " + context + "\n" +
		"### Answer: "
}
