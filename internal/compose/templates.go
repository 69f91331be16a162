package compose

const contactTextTmpl = `Contact Form Submission

Personal Information:
Full Name: {{.FullName}}
Email: {{.Email}}
Phone: {{.Phone}}
Contact Method: {{.ContactMethod}}

Business Information:
Company Name: {{.CompanyName}}
Employees: {{.NumEmployees}}
Service: {{.Service}}
Interests: {{.Interests}}

Files:
{{if .Files}}{{range .Files}}File {{.N}}: {{.URL}}
{{end}}{{else}}{{.NoFiles}}
{{end}}
Message:
{{.Message}}
`

const contactHTMLTmpl = `<div style="background:#ffffff;color:#000000;padding:24px;font-family:Arial, sans-serif;border-radius:12px;max-width:640px;margin:auto;border:1px solid #e5e5e5;">
  <h2 style="margin:0 0 8px 0;font-size:24px;">New Contact Form Submission</h2>
  <p style="margin:0 0 20px 0;color:#444;">From Contact Website</p>

  <div style="margin-bottom:24px;">
    <h3 style="font-size:18px;margin-bottom:8px;border-left:4px solid red;padding-left:8px;">Contact Information</h3>
    <p><strong>Full Name:</strong> {{.FullName}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Phone:</strong> {{.Phone}}</p>
    <p><strong>Contact Method:</strong> {{.ContactMethod}}</p>
  </div>

  <div style="margin-bottom:24px;">
    <h3 style="font-size:18px;margin-bottom:8px;border-left:4px solid red;padding-left:8px;">Business Details</h3>
    <p><strong>Company Name:</strong> {{.CompanyName}}</p>
    <p><strong>Number of Employees:</strong> {{.NumEmployees}}</p>
    <p><strong>Service Interested In:</strong> {{.Service}}</p>
    <p><strong>Interests:</strong> {{.Interests}}</p>
  </div>

  <div style="margin-bottom:24px;">
    <h3 style="font-size:18px;margin-bottom:8px;border-left:4px solid red;padding-left:8px;">Uploaded Files ({{len .Files}})</h3>
    {{if .Files}}{{range .Files}}<p><strong>File {{.N}}:</strong> <a href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.URL}}</a> (Click to download)</p>
    {{end}}{{else}}<p>{{.NoFiles}}</p>{{end}}
  </div>

  <div style="margin-bottom:32px;">
    <h3 style="font-size:18px;margin-bottom:8px;border-left:4px solid red;padding-left:8px;">Message</h3>
    <div style="background:#fafafa;padding:16px;border-radius:8px;border:1px solid #eee;">
      <p style="margin:0;line-height:1.5;">{{.Message}}</p>
    </div>
  </div>

  <div style="text-align:center;margin-top:32px;font-size:14px;color:#333;">
    Powered by <span style="color:red;font-weight:bold;">{{.Brand.ProductName}}</span>
  </div>
</div>
`

const bookingTextTmpl = `Consultation Booking Confirmation - {{.Brand.OrgName}}

Consultation Successfully Scheduled
This email confirms a consultation booking made through the {{.Brand.OrgName}} website.

Consultant: {{.Brand.ConsultantName}}
{{.Brand.ConsultantTitle}}

Time: {{.Time}}
Date: {{.Date}}

Booking Details:
Client Name: {{.ClientName}}
Email Address: {{.ClientEmail}}
Business Name: {{.BusinessName}}
Client Message: {{.ClientMessage}}
Reservation Code: {{.ReservationCode}}
Meeting Link: {{.MeetLink}}
Google Calendar Link: {{.EventLink}}

This message was generated via the {{.Brand.OrgName}} booking system.
Powered by {{.Brand.PlatformName}}
`

const bookingHTMLTmpl = `<body style="margin:0;padding:0;background-color:#ffffff;font-family:Arial, Helvetica, sans-serif;color:#1f1f1f;">
  <table width="100%" cellpadding="0" cellspacing="0" style="background-color:#ffffff;">
    <tr>
      <td align="center" style="padding:48px 16px;">
        <table width="100%" cellpadding="0" cellspacing="0" style="max-width:600px;border-radius:18px;border:1px solid #eeeeee;padding:40px;">
          <tr>
            <td align="center" style="padding-bottom:26px;">
              <div style="font-size:22px;font-weight:700;letter-spacing:0.4px;">{{.Brand.OrgName}}</div>
              <div style="font-size:13px;color:#ff7a00;font-weight:600;margin-top:6px;">Consultation Booking Confirmation</div>
            </td>
          </tr>
          <tr>
            <td align="center" style="padding-bottom:12px;">
              <div style="font-size:21px;font-weight:600;">Consultation Successfully Scheduled</div>
            </td>
          </tr>
          <tr>
            <td align="center" style="padding-bottom:30px;font-size:14px;color:#666666;line-height:1.6;">
              This email confirms a consultation booking made through the {{.Brand.OrgName}} website.
            </td>
          </tr>
          <tr>
            <td align="center" style="padding-bottom:6px;">
              <div style="font-size:26px;font-weight:700;">{{.Brand.ConsultantName}}</div>
            </td>
          </tr>
          <tr>
            <td align="center" style="padding-bottom:28px;font-size:15px;color:#555555;">{{.Brand.ConsultantTitle}}</td>
          </tr>
          <tr>
            <td align="center" style="padding-bottom:8px;">
              <div style="font-size:34px;font-weight:700;">{{.Time}}</div>
            </td>
          </tr>
          <tr>
            <td align="center" style="padding-bottom:34px;font-size:13px;color:#777777;">{{.Date}}</td>
          </tr>
          <tr>
            <td style="padding:28px;background-color:#fafafa;border-radius:14px;">
              <table width="100%" cellpadding="0" cellspacing="0" style="font-size:13px;color:#444444;">
                <tr><td style="padding:8px 0;font-weight:600;">Client Name</td><td style="padding:8px 0;">{{.ClientName}}</td></tr>
                <tr><td style="padding:8px 0;font-weight:600;">Email Address</td><td style="padding:8px 0;">{{.ClientEmail}}</td></tr>
                <tr><td style="padding:8px 0;font-weight:600;">Business Name</td><td style="padding:8px 0;">{{.BusinessName}}</td></tr>
                <tr><td style="padding:8px 0;font-weight:600;">Client Message</td><td style="padding:8px 0;">{{.ClientMessage}}</td></tr>
                <tr><td style="padding:8px 0;font-weight:600;">Reservation Code</td><td style="padding:8px 0;">{{.ReservationCode}}</td></tr>
                <tr>
                  <td style="padding:8px 0;font-weight:600;">Meeting Link</td>
                  <td style="padding:8px 0;"><a href="{{.MeetLink}}" style="color:#ff7a00;text-decoration:none;font-weight:600;">Join Google Meet</a></td>
                </tr>
              </table>
            </td>
          </tr>
          <tr>
            <td align="center" style="padding-top:34px;">
              <a href="{{.EventLink}}" style="display:inline-block;padding:16px 36px;background-color:#ff7a00;color:#ffffff;text-decoration:none;border-radius:32px;font-size:14px;font-weight:700;">View Full Booking Details</a>
            </td>
          </tr>
          <tr>
            <td align="center" style="padding-top:44px;font-size:12px;color:#9a9a9a;line-height:1.6;">
              This message was generated via the {{.Brand.OrgName}} booking system.<br />
              Powered by <strong>{{.Brand.PlatformName}}</strong>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
`
