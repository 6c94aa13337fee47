package report

import (
	"encoding/json"
	"fmt"

	"olilab/models"
)

const instructions = `You are a professional lab manager's assistant. Your task is to generate a concise, insightful, and well-formatted inventory status report based on the provided JSON data.

Instructions:
1. Start with a brief, encouraging overview of the lab's status.
2. Create a "Low Stock Alert" section. Identify items where the available quantity is less than 20%% of the total quantity. List them clearly. If no items are low on stock, state that everything is well-stocked.
3. Create a "Recent Activity" section. Summarize the 5 most recent borrowing or returning activities. Mention the item, the user, the action, and the quantity.
4. Create a "Most Active Items" section. Identify the top 3 most frequently borrowed items from the logs.
5. Conclude with a positive and forward-looking statement.
6. Format the entire output as clean HTML. Use tags like <h2> for headings, <ul> and <li> for list items, and <strong> for bold text. Do not include <html>, <head>, or <body> tags.

JSON Data:
* Inventory: %s
* Logs: %s
* Users: %s
`

// reportUser 只给模型必要的字段
type reportUser struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

func buildPrompt(items []models.Item, logs []models.LogEntry, users []models.User) (string, error) {
	ru := make([]reportUser, len(users))
	for i, u := range users {
		ru[i] = reportUser{ID: u.ID, FullName: u.FullName, Role: u.Role}
	}
	bi, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	bl, err := json.Marshal(logs)
	if err != nil {
		return "", err
	}
	bu, err := json.Marshal(ru)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(instructions, bi, bl, bu), nil
}
