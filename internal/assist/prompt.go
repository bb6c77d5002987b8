package assist

import (
	"strings"

	"github.com/Kaztic/crosshair/pkg/models"
)

// Mode selects between improving caller-supplied code and generating code
// from scratch.
type Mode int

const (
	// ModeGenerate produces new code from the instruction alone.
	ModeGenerate Mode = iota
	// ModeImprove revises the caller's code per the instruction.
	ModeImprove
)

const generateSystemPrompt = `You are an expert game developer and programming mentor specialized in multiple languages including C++, C#, Python, and JavaScript.
You excel at writing comprehensive, accurate code that follows modern practices, handles edge cases properly, and is well-structured.

Your responses should demonstrate:
1. Deep understanding of language-specific best practices and common patterns
2. Thorough implementation that handles edge cases and error conditions
3. Accurate syntax and semantics that will compile and run without errors
4. Appropriate use of data structures and algorithms
5. Clear organization with proper encapsulation and proper object-oriented design
6. Memory management appropriate for the language (manual in C++, garbage collection in others)
7. Proper type handling and validation
8. Complete implementations rather than partial pseudo-code

When writing C++ game code specifically:
- Use modern C++ features (C++11/14/17/20) appropriately
- Include proper header guards or #pragma once
- Handle memory management carefully (prefer smart pointers over raw pointers)
- Distinguish between .h/.hpp and .cpp files correctly when needed
- Include necessary standard library headers
- Use appropriate access modifiers (public/private/protected)
- Implement proper constructors, destructors, and rule-of-five/zero when needed
- Provide complete class implementations, not just interfaces
`

const generateWholeFileSuffix = `
Return the complete file with all the required code.
The code should be properly formatted, complete, and ready to use without modification.
Always put the generated code inside ` + "```code blocks```" + `.
After the code block, provide a clear, detailed explanation of the implementation.
`

const generatePreciseSuffix = `
Return the generated code using the following format:
` + "```1:1:filename" + `
your generated code
` + "```" + `

For example, if you generate code for a player class in C++, format your response like this:
` + "```1:1:player.h" + `
#pragma once
// The generated header code for player.h
` + "```" + `

` + "```1:1:player.cpp" + `
#include "player.h"
// The generated implementation code for player.cpp
` + "```" + `

If you're generating multiple files, use separate code blocks with appropriate filenames.
Always include filename in your code blocks.
After the code blocks, provide a clear, detailed explanation of the implementation.
`

const improveSystemPrompt = `You are an expert game developer and programming mentor specialized in multiple languages including C++, C#, Python, and JavaScript.
You excel at improving code to make it more efficient, readable, maintainable, and correct.

When improving code, ensure you:
1. Fix any syntax errors or bugs in the original code
2. Improve the implementation to handle edge cases and error conditions
3. Refactor for better performance, readability, and maintainability
4. Apply language-specific best practices and design patterns
5. Maintain or improve the existing architecture unless explicitly asked to change it
6. Add or improve comments and documentation where necessary
7. Ensure the code is complete and will run correctly without additional modifications

When improving C++ game code specifically:
- Use modern C++ features (C++11/14/17/20) where appropriate
- Fix memory management issues (use smart pointers where appropriate)
- Improve const-correctness and access modifiers
- Fix inheritance issues or object-oriented design problems
- Ensure proper initialization of variables and prevent undefined behavior
- Add appropriate error handling and input validation
- Maintain header/implementation separation if present in the original
`

const improveWholeFileSuffix = `
You should return the entire improved file with all changes applied.
Make the necessary changes to fulfill the user's request and fix any other issues you identify.
Always put the improved code inside ` + "```code blocks```" + `.
After the code block, provide a clear, detailed explanation of what you changed and why.
`

const improvePreciseSuffix = `
When making changes to the code, use the following format to provide precise line edits:
` + "```startLine:endLine:filepath" + `
replacement code
` + "```" + `

For example, if you want to replace lines 10-12 in a file called "player.cpp", format your response like this:
` + "```10:12:player.cpp" + `
// The new code that should replace lines 10-12
` + "```" + `

If your changes affect multiple disconnected regions of the file, use multiple code blocks with the line specifications.
Always include line numbers in your code blocks.
After the code blocks, provide a clear, detailed explanation of the changes.
`

// Prompt is the pair of texts sent to the provider.
type Prompt struct {
	System string
	User   string
	Mode   Mode
}

// BuildPrompt assembles the system instruction and user message for a
// request. Pure string construction; the only failure is a blank
// instruction.
func BuildPrompt(code, instruction string, history []models.ConversationMessage, wholeFile bool) (Prompt, error) {
	if strings.TrimSpace(instruction) == "" {
		return Prompt{}, ErrEmptyPrompt
	}

	instruction = renderHistory(history, instruction)

	mode := ModeImprove
	if strings.TrimSpace(code) == "" {
		mode = ModeGenerate
	}

	var system, user string
	switch mode {
	case ModeGenerate:
		system = generateSystemPrompt
		if wholeFile {
			system += generateWholeFileSuffix
		} else {
			system += generatePreciseSuffix
		}
		user = `I need you to generate code according to this prompt:

Instructions: ` + instruction + `

Please generate high-quality, clean, well-documented, and COMPLETE code that will work correctly without modifications.
Return your response with the code in a code block and a detailed explanation of your implementation.`

	case ModeImprove:
		system = improveSystemPrompt
		if wholeFile {
			system += improveWholeFileSuffix
		} else {
			system += improvePreciseSuffix
		}
		user = `Here is the code I want to improve:

` + "```\n" + code + "\n```" + `

Instructions: ` + instruction + `

Please improve this code according to the instructions.
The improved code should be complete, correct, and follow best practices for the programming language.
Return your response with the improved code in a code block and a detailed explanation of the changes.`
	}

	return Prompt{System: system, User: user, Mode: mode}, nil
}

// renderHistory prepends prior conversation turns to the instruction,
// preserving their order.
func renderHistory(history []models.ConversationMessage, instruction string) string {
	if len(history) == 0 {
		return instruction
	}

	var b strings.Builder
	b.WriteString("\n\nPrevious conversation context:\n")
	for _, msg := range history {
		prefix := "Assistant: "
		if msg.Role == "user" {
			prefix = "User: "
		}
		b.WriteString(prefix)
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	b.WriteString("\n\nCurrent request: ")
	b.WriteString(instruction)
	return b.String()
}
