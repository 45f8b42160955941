package analysis

import "fmt"

// BuildPrompt assembles the single-shot comparison prompt. Both inputs are
// passed through verbatim; the model sees exactly what the caller stored.
func BuildPrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(
		"Analyze the following resume in comparison to the job description. "+
			"Assess how well the candidate's skills and experience match the requirements, "+
			"call out gaps, and suggest concrete improvements.\n\n"+
			"Resume:\n%s\n\nJob Description:\n%s",
		resumeText,
		jobDescription,
	)
}
