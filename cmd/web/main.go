// @title           StayHub API
// @version         1.0
// @description     API отельного бэкенда: заселение гостей, чат с персоналом и уведомления.
// @contact.name    StayHub
// @contact.email   support@stayhub.test
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /

package main

import "stayhub_backend/internal/app"

func main() {
	app.Run()
}
