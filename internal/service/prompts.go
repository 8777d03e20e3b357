package service

import (
	"fmt"
	"strings"

	"storygame-server/internal/models"
)

// Ответ модератора считается одобрением только при этом префиксе
// (регистрозависимое сравнение).
const approvedPrefix = "APPROVED"

// Роли ("личности") оракула для разных шагов игры.
const (
	narratorRole  = "You are a creative narrator setting up story scenarios. Be imaginative and provide a foundation for two players to build upon."
	objectiveRole = "You are an objective generator. Create clear, conflicting goals that players can pursue in a story."
	moderatorRole = "You are a story moderator ensuring narrative consistency and appropriate pacing."
	judgeRole     = "You are a fair judge evaluating story outcomes against stated objectives."
	scribeRole    = "You are a video script writer creating engaging summaries for storytelling games."
)

const narratorPrompt = "Create a brief, engaging setting for a collaborative storytelling game. Include a location, time period, and initial situation. Keep it under 100 words."

func objectivesPrompt(setting string) string {
	return fmt.Sprintf("Based on this setting: '%s', create two mutually exclusive objectives for two players. Each objective should be achievable but conflict with the other. Format as a simple list.", setting)
}

func moderatorPrompt(session *models.Session, text string, pace int) string {
	var context strings.Builder
	context.WriteString(session.NarratorSetting)
	for i, action := range session.Actions {
		context.WriteString(fmt.Sprintf("\nAction %d: %s", i+1, action.Text))
	}

	return fmt.Sprintf(`Story context: %s

New action: %s (Pace: %d)

Validate this action:
1. Does it maintain the established environment/setting?
2. Does it follow logically from the previous story context?
3. Is it appropriate for the pace level (1=subtle, 5=major twist)?

Respond with only 'APPROVED' or 'REJECTED' followed by a brief reason.`, context.String(), text, pace)
}

func judgePrompt(transcript string, objectives []string) string {
	return fmt.Sprintf(`Story: %s

Objectives: %s

Evaluate which objective was achieved based on the story. Consider:
- Which player's actions better aligned with each objective
- The overall narrative outcome
- The effectiveness of each player's strategy

Declare the winner and explain your reasoning.`, transcript, strings.Join(objectives, "; "))
}

func scribePrompt(transcript string) string {
	return fmt.Sprintf(`Create a 15-30 second video summary script for this story:

%s

Focus on the most dramatic moments and key plot points. Write in a cinematic style suitable for video narration.`, transcript)
}
