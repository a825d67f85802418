// Package generator реализует генерацию астрологических раскладов через YandexGPT.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	yandexgpt "github.com/sheeiavellie/go-yandexgpt"

	"github.com/starweaverbot/starweaver/internal/config"
	"github.com/starweaverbot/starweaver/internal/models"
)

const systemPrompt = `You are StarWeaver, a wise and compassionate astrologer who provides personalized readings for women.
You combine ancient astrological wisdom with modern psychological insights.

Provide a warm, insightful astrology reading that:
1. Addresses their specific question with empathy and wisdom
2. Incorporates relevant astrological concepts if birth data is available
3. Offers practical guidance and encouragement
4. Uses a supportive, feminine-empowering tone
5. Keeps the reading between 150-300 words

If no birth data is provided, focus on general guidance and encourage them to share their birth information for more personalized readings.`

const defaultQuestion = "Give me a general astrology reading"

// Client генерирует расклады через YandexGPT.
type Client struct {
	api      *yandexgpt.YandexGPTClient
	folderID string
	log      *slog.Logger
}

// New создает новый Client с переданными настройками.
func New(cfg config.YandexGPT, log *slog.Logger) *Client {
	return &Client{
		api:      yandexgpt.NewYandexGPTClientWithAPIKey(cfg.APIKey),
		folderID: cfg.FolderID,
		log:      log,
	}
}

// Generate формирует промпт из профиля пользователя и вопроса
// и возвращает текст расклада.
func (c *Client) Generate(ctx context.Context, user *models.User, question string) (string, error) {
	const op = "generator.Generate"

	if question == "" {
		question = defaultQuestion
	}

	request := yandexgpt.YandexGPTRequest{
		ModelURI: yandexgpt.MakeModelURI(c.folderID, yandexgpt.YandexGPT4ModelLite),
		CompletionOptions: yandexgpt.YandexGPTCompletionOptions{
			Stream:      false,
			Temperature: 0.7,
			MaxTokens:   400,
		},
		Messages: []yandexgpt.YandexGPTMessage{
			{
				Role: yandexgpt.YandexGPTMessageRoleSystem,
				Text: systemPrompt,
			},
			{
				Role: yandexgpt.YandexGPTMessageRoleUser,
				Text: userPrompt(user, question),
			},
		},
	}

	response, err := c.api.GetCompletion(ctx, request)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if len(response.Result.Alternatives) == 0 {
		return "", fmt.Errorf("%s: empty completion result", op)
	}

	reading := strings.TrimSpace(response.Result.Alternatives[0].Message.Text)
	c.log.Info("generated reading", slog.Int64("telegram_id", user.TelegramID),
		slog.Int("length", len(reading)))
	return reading, nil
}

func userPrompt(user *models.User, question string) string {
	name := user.FirstName
	if name == "" {
		name = "Dear soul"
	}

	birthInfo := "Birth data not provided yet."
	if user.HasBirthData() {
		birthInfo = fmt.Sprintf("Birth Date: %s\nBirth Time: %s\nBirth Place: %s",
			user.BirthDate, user.BirthTime, user.BirthPlace)
	}

	return fmt.Sprintf("User Information:\nName: %s\n%s\n\nUser's Question: %s",
		name, birthInfo, question)
}
