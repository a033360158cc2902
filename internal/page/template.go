package page

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Placeholder marks where the assembled content lands in a template.
const Placeholder = "{content}"

// ErrNoPlaceholder is returned by LoadTemplate for templates that have
// nowhere to put the content.
var ErrNoPlaceholder = errors.New("template is missing the {content} placeholder")

// LoadTemplate reads a custom page template and validates it. Callers fall
// back to DefaultTemplate (with a warning) on any error.
func LoadTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading template: %w", err)
	}
	tpl := string(data)
	if !strings.Contains(tpl, Placeholder) {
		return "", ErrNoPlaceholder
	}
	return tpl, nil
}

// Render substitutes the assembled content into a template. Every
// occurrence of the placeholder is replaced.
func Render(tpl, content string) string {
	return strings.ReplaceAll(tpl, Placeholder, content)
}

// DefaultTemplate is the built-in page shell: a Bootstrap page carrying
// the styles for the section badges, the hidden BibTeX blocks, and the
// copy-to-clipboard hookup.
const DefaultTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta http-equiv="X-UA-Compatible" content="IE=edge">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>My Research</title> <link rel="stylesheet" href="https://stackpath.bootstrapcdn.com/bootstrap/3.4.1/css/bootstrap.min.css">
    <link href="https://fonts.googleapis.com/css?family=Open+Sans:300,400,400i,600,700" rel="stylesheet">
    <link href="https://fonts.googleapis.com/css?family=Montserrat:400,400i,500,500i,600" rel="stylesheet">
    <link rel="stylesheet" href="https://use.fontawesome.com/releases/v5.8.1/css/all.css">
    <link rel="stylesheet" href="https://cdn.rawgit.com/jpswalsh/academicons/master/css/academicons.min.css">
    <style>
        body { padding-top: 20px; }
        .pub-tag {
            display: inline-block;
            margin-right: 8px;
            font-size: 12px;
            font-weight: 600;
            color: #fff;
            padding: 3px 10px;
            border-radius: 12px;
            vertical-align: middle;
            font-family: 'Montserrat', sans-serif;
        }
        .pub-tag .fas {
            margin-right: 4px;
        }
        .pub-tag.journal {
            background-color: #007bff;
        }
        .pub-tag.conference {
            background-color: #28a745;
        }
        .copy-btn {
            background: none;
            border: none;
            color: #007bff;
            cursor: pointer;
            padding: 0 3px;
            font-size: 12px;
        }
        .copy-btn:hover {
            text-decoration: underline;
        }
        pre.bibtex-source {
            display: none;
        }
    </style>
    </head>
<body class="page-justified">
    <div class="spacer-div-3 hidden-xs hidden-xs"></div>
    <div id="main-container" class="container">
        <div class="row">
            <div class="col-sm-12">
                <h1>Research</h1>

                {content}

            </div>
        </div>
    </div>
    <script src="https://cdnjs.cloudflare.com/ajax/libs/jquery/3.3.1/jquery.min.js"></script>
    <script src="https://stackpath.bootstrapcdn.com/bootstrap/3.4.1/js/bootstrap.min.js" integrity="sha384-aJ21OjlMXNL5UyIl/XNwTMqvzeRMZH2w8c5cRVpzpU8Y5bApTppSuUkhZXN0VxHd" crossorigin="anonymous"></script>
    <script>
    document.addEventListener('DOMContentLoaded', function() {
        document.querySelectorAll('.copy-btn').forEach(copyButton => {
            copyButton.addEventListener('click', function() {
                const codeId = this.getAttribute('data-copy');
                const codeElement = document.getElementById(codeId);
                if (!codeElement) {
                    console.error('Missing BibTeX source for button', codeId);
                    return;
                }

                const codeText = codeElement.textContent;
                const originalLabel = this.textContent;

                navigator.clipboard.writeText(codeText).then(() => {
                    this.textContent = 'Copied!';
                    this.disabled = true;
                    setTimeout(() => {
                        this.textContent = originalLabel;
                        this.disabled = false;
                    }, 2000);
                }).catch(err => {
                    console.error('Failed to copy text: ', err);
                });
            });
        });
    });
    </script>
</body>
</html>
`
