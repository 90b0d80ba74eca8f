package utils

import (
	"fmt"
	"time"
)

// SendExpenseReminderEmail notifies a project owner about an unpaid
// expense falling due soon.
func SendExpenseReminderEmail(to, firstName, title, amount string, paymentDate time.Time) error {
	subject := fmt.Sprintf("⏰ Reminder: '%s' is due on %s", title, paymentDate.Format("02 Jan 2006"))

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<title>Upcoming Expense</title>
	<style>
		body {
			font-family: 'Segoe UI', Roboto, Arial, sans-serif;
			background-color: #f6f8f7;
			margin: 0;
			padding: 0;
			color: #333;
		}
		.container {
			max-width: 480px;
			margin: 25px auto;
			background: #ffffff;
			border-radius: 12px;
			box-shadow: 0 4px 16px rgba(0, 0, 0, 0.08);
			overflow: hidden;
			border-top: 5px solid #f0ad4e;
		}
		.header {
			background-color: #f0ad4e;
			color: #ffffff;
			text-align: center;
			padding: 18px 12px;
		}
		.content {
			padding: 20px;
		}
		.amount {
			font-size: 22px;
			font-weight: bold;
			color: #d9534f;
		}
		.footer {
			text-align: center;
			font-size: 12px;
			color: #999;
			padding: 14px;
		}
	</style>
	</head>
	<body>
	<div class="container">
		<div class="header"><h2>Upcoming Expense</h2></div>
		<div class="content">
			<p>Hi %s,</p>
			<p>The expense <strong>%s</strong> is still marked as unpaid and falls due on <strong>%s</strong>.</p>
			<p class="amount">€%s</p>
			<p>Log in to your dashboard to review or settle it.</p>
		</div>
		<div class="footer">Renovest — property renovation, accounted for.</div>
	</div>
	</body>
	</html>`, firstName, title, paymentDate.Format("02 Jan 2006"), amount)

	return SendEmail(to, subject, body)
}
